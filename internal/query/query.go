// Package query turns listing query strings into typed, engine-neutral queries.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*MaxLimit inside a 32-bit int.
	MaxPage = 1 << 24
)

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// ParsePage reads page and limit. Non-numeric or values below 1 fall back to
// the defaults. page is clamped to MaxPage and limit to MaxLimit.
func ParsePage(v url.Values) Page {
	return Page{
		Number: min(positiveInt(v.Get("page"), DefaultPage), MaxPage),
		Limit:  min(positiveInt(v.Get("limit"), DefaultLimit), MaxLimit),
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
	SortName      SortField = "name"
	SortRelevance SortField = "relevance"
)

type Sort struct {
	Field SortField
	Desc  bool
}

var (
	projectSorts = map[string]SortField{"createdAt": SortCreatedAt, "updatedAt": SortUpdatedAt, "title": SortTitle}
	profileSorts = map[string]SortField{"createdAt": SortCreatedAt, "updatedAt": SortUpdatedAt, "name": SortName}
)

// parseSort applies the whitelist. Without an explicit sortBy a text search
// ranks by relevance, everything else sorts newest first.
func parseSort(v url.Values, allowed map[string]SortField, hasText bool) Sort {
	field, ok := allowed[v.Get("sortBy")]
	if !ok {
		if hasText && v.Get("sortBy") == "" {
			return Sort{Field: SortRelevance, Desc: true}
		}
		return Sort{Field: SortCreatedAt, Desc: true}
	}
	return Sort{Field: field, Desc: !strings.EqualFold(v.Get("order"), "asc")}
}

// ParseSkills splits a comma separated list, dropping blanks.
func ParseSkills(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SkillFilter matches entities holding at least MinSkills of Skills.
type SkillFilter struct {
	Skills    []string
	MinSkills int
}

func (f SkillFilter) Active() bool { return len(f.Skills) > 0 }

func (f SkillFilter) Min() int {
	if f.MinSkills < 1 {
		return 1
	}
	return f.MinSkills
}

// Matches reports whether have contains enough of the requested skills.
func (f SkillFilter) Matches(have []string) bool {
	if !f.Active() {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	hits := 0
	for _, s := range f.Skills {
		if _, ok := set[s]; ok {
			hits++
		}
	}
	return hits >= f.Min()
}

type ProjectQuery struct {
	Text   string
	Skills SkillFilter
	Owner  *uuid.UUID
	Sort   Sort
	Page   Page
}

type ProfileQuery struct {
	Text   string
	Skills SkillFilter
	Sort   Sort
	Page   Page
}

func textTerm(v url.Values) string {
	if q := strings.TrimSpace(v.Get("q")); q != "" {
		return q
	}
	return strings.TrimSpace(v.Get("search"))
}

func ParseProfileQuery(v url.Values) ProfileQuery {
	text := textTerm(v)
	return ProfileQuery{
		Text:   text,
		Skills: SkillFilter{Skills: ParseSkills(v.Get("skills")), MinSkills: 1},
		Sort:   parseSort(v, profileSorts, text != ""),
		Page:   ParsePage(v),
	}
}

func ParseProjectQuery(v url.Values) (ProjectQuery, error) {
	text := textTerm(v)
	q := ProjectQuery{
		Text:   text,
		Skills: SkillFilter{Skills: ParseSkills(v.Get("skills")), MinSkills: 1},
		Sort:   parseSort(v, projectSorts, text != ""),
		Page:   ParsePage(v),
	}
	if raw := strings.TrimSpace(v.Get("owner")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ProjectQuery{}, apperrors.Validation("Invalid owner id")
		}
		q.Owner = &id
	}
	return q, nil
}

// ParseSkillSearch builds the skill-search query. Skills are required and
// minSkills defaults to 1. A minSkills above the number of requested skills
// is kept as is and matches nothing.
func ParseSkillSearch(v url.Values) (ProjectQuery, error) {
	skills := ParseSkills(v.Get("skills"))
	if len(skills) == 0 {
		return ProjectQuery{}, apperrors.Validation("Skills parameter is required")
	}
	minSkills := positiveInt(v.Get("minSkills"), 1)

	return ProjectQuery{
		Skills: SkillFilter{Skills: skills, MinSkills: minSkills},
		Sort:   parseSort(v, projectSorts, false),
		Page:   ParsePage(v),
	}, nil
}

// ParseTopLimit reads the limit of the skill usage aggregate.
func ParseTopLimit(v url.Values) int {
	return min(positiveInt(v.Get("limit"), DefaultLimit), MaxLimit)
}
