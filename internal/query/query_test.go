package query

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		number int
		limit  int
		offset int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "page=3&limit=5", 3, 5, 10},
		{"non numeric", "page=abc&limit=x", 1, 10, 0},
		{"below one", "page=0&limit=-4", 1, 10, 0},
		{"clamped", "page=2&limit=1000", 2, MaxLimit, MaxLimit},
		{"huge page", "page=4611686018427387905&limit=100", MaxPage, MaxLimit, (MaxPage - 1) * MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			p := ParsePage(v)
			assert.Equal(t, tt.number, p.Number)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset())
		})
	}
}

func TestPage_TotalPages(t *testing.T) {
	t.Parallel()

	p := Page{Number: 1, Limit: 10}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 3, Page{Number: 1, Limit: 2}.TotalPages(5))
}

func TestParseSkills(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go", "rust", "sql"}, ParseSkills(" go,rust , ,sql,"))
	assert.Empty(t, ParseSkills(""))
}

func TestSkillFilter_Matches(t *testing.T) {
	t.Parallel()

	f := SkillFilter{Skills: []string{"go", "rust", "sql"}, MinSkills: 2}
	assert.True(t, f.Matches([]string{"go", "sql", "docker"}))
	assert.False(t, f.Matches([]string{"go", "docker"}))
	assert.True(t, SkillFilter{}.Matches(nil))
	assert.True(t, SkillFilter{Skills: []string{"go"}}.Matches([]string{"go"}))
}

func TestParseProjectQuery(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	v := url.Values{}
	v.Set("search", "compiler")
	v.Set("skills", "go,rust")
	v.Set("owner", owner.String())

	q, err := ParseProjectQuery(v)
	require.NoError(t, err)
	assert.Equal(t, "compiler", q.Text)
	assert.Equal(t, []string{"go", "rust"}, q.Skills.Skills)
	assert.Equal(t, 1, q.Skills.Min())
	require.NotNil(t, q.Owner)
	assert.Equal(t, owner, *q.Owner)
	assert.Equal(t, Sort{Field: SortRelevance, Desc: true}, q.Sort)
}

func TestParseProjectQuery_QTakesPrecedence(t *testing.T) {
	t.Parallel()

	q, err := ParseProjectQuery(url.Values{"q": {"api"}, "search": {"ignored"}})
	require.NoError(t, err)
	assert.Equal(t, "api", q.Text)
}

func TestParseProjectQuery_InvalidOwner(t *testing.T) {
	t.Parallel()

	_, err := ParseProjectQuery(url.Values{"owner": {"not-a-uuid"}})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Sort
	}{
		{"default", "", Sort{SortCreatedAt, true}},
		{"title asc", "sortBy=title&order=asc", Sort{SortTitle, false}},
		{"updated default desc", "sortBy=updatedAt", Sort{SortUpdatedAt, true}},
		{"unknown falls back", "sortBy=password&order=asc", Sort{SortCreatedAt, true}},
		{"explicit sort beats relevance", "q=go&sortBy=createdAt&order=asc", Sort{SortCreatedAt, false}},
		{"text without sort", "q=go", Sort{SortRelevance, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			q, err := ParseProjectQuery(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestParseProfileQuery_NameSort(t *testing.T) {
	t.Parallel()

	q := ParseProfileQuery(url.Values{"sortBy": {"name"}, "order": {"asc"}})
	assert.Equal(t, Sort{SortName, false}, q.Sort)

	q = ParseProfileQuery(url.Values{"sortBy": {"title"}})
	assert.Equal(t, Sort{SortCreatedAt, true}, q.Sort)
}

func TestParseSkillSearch(t *testing.T) {
	t.Parallel()

	_, err := ParseSkillSearch(url.Values{})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	q, err := ParseSkillSearch(url.Values{"skills": {"go,rust"}, "minSkills": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, 5, q.Skills.MinSkills)
	assert.False(t, q.Skills.Matches([]string{"go", "rust"}))

	q, err = ParseSkillSearch(url.Values{"skills": {"go,rust"}, "minSkills": {"zero"}})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Skills.MinSkills)
}

func TestParseTopLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultLimit, ParseTopLimit(url.Values{}))
	assert.Equal(t, 3, ParseTopLimit(url.Values{"limit": {"3"}}))
	assert.Equal(t, MaxLimit, ParseTopLimit(url.Values{"limit": {"500"}}))
}
