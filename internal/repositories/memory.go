package repositories

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/query"
)

// MemoryStore keeps everything in process. It backs STORE_DRIVER=memory and
// the service and handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]models.Profile
	projects map[uuid.UUID]models.Project
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uuid.UUID]models.Profile),
		projects: make(map[uuid.UUID]models.Project),
		now:      time.Now,
	}
}

func (s *MemoryStore) Profiles() ProfileRepository { return memoryProfiles{s} }

func (s *MemoryStore) Projects() ProjectRepository { return memoryProjects{s} }

func (s *MemoryStore) Ping(context.Context) error { return nil }

// tick returns a timestamp strictly after the previous one so ordering by
// time stays stable in fast tests.
func (s *MemoryStore) tick(prev time.Time) time.Time {
	t := s.now().UTC()
	if !t.After(prev) {
		t = prev.Add(time.Microsecond)
	}
	return t
}

func (s *MemoryStore) latest() time.Time {
	var t time.Time
	for _, p := range s.profiles {
		t = maxTime(t, p.CreatedAt, p.UpdatedAt)
	}
	for _, p := range s.projects {
		t = maxTime(t, p.CreatedAt, p.UpdatedAt)
	}
	return t
}

func maxTime(ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.After(out) {
			out = t
		}
	}
	return out
}

func cloneProfile(p models.Profile) models.Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Education = slices.Clone(p.Education)
	p.Work = slices.Clone(p.Work)
	p.Projects = nil
	return p
}

func cloneProject(p models.Project) models.Project {
	p.Skills = slices.Clone(p.Skills)
	return p
}

type memoryProfiles struct{ s *MemoryStore }

func (m memoryProfiles) emailTaken(email string, except uuid.UUID) bool {
	for id, p := range m.s.profiles {
		if id != except && p.Email == email {
			return true
		}
	}
	return false
}

func (m memoryProfiles) Create(_ context.Context, p *models.Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := m.s.profiles[p.ID]; ok || m.emailTaken(p.Email, p.ID) {
		return apperrors.Conflict(conflictMessage(entityProfile))
	}
	now := m.s.tick(m.s.latest())
	p.CreatedAt, p.UpdatedAt = now, now
	m.s.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (m memoryProfiles) Get(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.profiles[id]
	if !ok {
		return nil, apperrors.NotFound("Profile not found")
	}
	out := cloneProfile(p)
	return &out, nil
}

func (m memoryProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, p := range m.s.profiles {
		if p.Email == email {
			out := cloneProfile(p)
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("Profile not found")
}

func (m memoryProfiles) Singleton(_ context.Context) (*models.Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	switch len(m.s.profiles) {
	case 0:
		return nil, apperrors.NotFound("Profile not found")
	case 1:
		for _, p := range m.s.profiles {
			out := cloneProfile(p)
			return &out, nil
		}
	}
	return nil, apperrors.Conflict("More than one profile exists, use /profiles/{id}")
}

func (m memoryProfiles) Update(_ context.Context, p *models.Profile, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.profiles[p.ID]
	if !ok {
		return apperrors.NotFound("Profile not found")
	}
	for _, c := range columns {
		switch c {
		case "name":
			stored.Name = p.Name
		case "email":
			if m.emailTaken(p.Email, p.ID) {
				return apperrors.Conflict(conflictMessage(entityProfile))
			}
			stored.Email = p.Email
		case "password":
			stored.Password = p.Password
		case "education":
			stored.Education = p.Education
		case "skills":
			stored.Skills = p.Skills
		case "work":
			stored.Work = p.Work
		case "links":
			stored.Links = p.Links
		}
	}
	stored.UpdatedAt = m.s.tick(m.s.latest())
	p.UpdatedAt = stored.UpdatedAt
	m.s.profiles[p.ID] = cloneProfile(stored)
	return nil
}

func (m memoryProfiles) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.profiles[id]; !ok {
		return apperrors.NotFound("Profile not found")
	}
	for pid, p := range m.s.projects {
		if p.OwnerID == id {
			delete(m.s.projects, pid)
		}
	}
	delete(m.s.profiles, id)
	return nil
}

func (m memoryProfiles) List(_ context.Context, q query.ProfileQuery) ([]models.Profile, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	terms := tokenize(q.Text)
	var hits []scored[models.Profile]
	for _, p := range m.s.profiles {
		if !q.Skills.Matches(p.Skills) {
			continue
		}
		score := 0
		if len(terms) > 0 {
			fields := []weighted{{p.Name, 2}}
			for _, e := range p.Education {
				fields = append(fields, weighted{e.Institution, 1})
			}
			for _, w := range p.Work {
				fields = append(fields, weighted{w.Company, 1})
			}
			if score = textScore(terms, fields...); score == 0 {
				continue
			}
		}
		hits = append(hits, scored[models.Profile]{cloneProfile(p), score})
	}

	sortHits(hits, q.Sort, func(p models.Profile) sortKeys {
		return sortKeys{id: p.ID, created: p.CreatedAt, updated: p.UpdatedAt, name: p.Name}
	})
	return page(hits, q.Page), int64(len(hits)), nil
}

type memoryProjects struct{ s *MemoryStore }

func (m memoryProjects) Create(_ context.Context, p *models.Project) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := m.s.projects[p.ID]; ok {
		return apperrors.Conflict(conflictMessage(entityProject))
	}
	now := m.s.tick(m.s.latest())
	p.CreatedAt, p.UpdatedAt = now, now
	m.s.projects[p.ID] = cloneProject(*p)
	return nil
}

func (m memoryProjects) Get(_ context.Context, id uuid.UUID) (*models.Project, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.projects[id]
	if !ok {
		return nil, apperrors.NotFound("Project not found")
	}
	out := cloneProject(p)
	return &out, nil
}

func (m memoryProjects) Update(_ context.Context, p *models.Project, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.projects[p.ID]
	if !ok {
		return apperrors.NotFound("Project not found")
	}
	for _, c := range columns {
		switch c {
		case "title":
			stored.Title = p.Title
		case "description":
			stored.Description = p.Description
		case "links":
			stored.Links = p.Links
		case "skills":
			stored.Skills = p.Skills
		}
	}
	stored.UpdatedAt = m.s.tick(m.s.latest())
	p.UpdatedAt = stored.UpdatedAt
	m.s.projects[p.ID] = cloneProject(stored)
	return nil
}

func (m memoryProjects) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.projects[id]; !ok {
		return apperrors.NotFound("Project not found")
	}
	delete(m.s.projects, id)
	return nil
}

func (m memoryProjects) List(_ context.Context, q query.ProjectQuery) ([]models.Project, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	terms := tokenize(q.Text)
	var hits []scored[models.Project]
	for _, p := range m.s.projects {
		if q.Owner != nil && p.OwnerID != *q.Owner {
			continue
		}
		if !q.Skills.Matches(p.Skills) {
			continue
		}
		score := 0
		if len(terms) > 0 {
			if score = textScore(terms, weighted{p.Title, 2}, weighted{p.Description, 1}); score == 0 {
				continue
			}
		}
		hits = append(hits, scored[models.Project]{cloneProject(p), score})
	}

	sortHits(hits, q.Sort, func(p models.Project) sortKeys {
		return sortKeys{id: p.ID, created: p.CreatedAt, updated: p.UpdatedAt, name: p.Title}
	})
	return page(hits, q.Page), int64(len(hits)), nil
}

func (m memoryProjects) TopSkills(_ context.Context, limit int) ([]models.SkillCount, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range m.s.projects {
		for _, skill := range p.Skills {
			counts[skill]++
		}
	}
	out := make([]models.SkillCount, 0, len(counts))
	for skill, n := range counts {
		out = append(out, models.SkillCount{Skill: skill, Count: n})
	}
	slices.SortFunc(out, func(a, b models.SkillCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Skill, b.Skill)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type scored[T any] struct {
	item  T
	score int
}

type weighted struct {
	text   string
	weight int
}

type sortKeys struct {
	id      uuid.UUID
	created time.Time
	updated time.Time
	name    string
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// textScore requires every term to occur in the fields and sums the weighted
// occurrences. Zero means no match.
func textScore(terms []string, fields ...weighted) int {
	score := 0
	for _, term := range terms {
		found := 0
		for _, f := range fields {
			for _, tok := range tokenize(f.text) {
				if tok == term {
					found += f.weight
				}
			}
		}
		if found == 0 {
			return 0
		}
		score += found
	}
	return score
}

func sortHits[T any](hits []scored[T], s query.Sort, keys func(T) sortKeys) {
	slices.SortStableFunc(hits, func(a, b scored[T]) int {
		ka, kb := keys(a.item), keys(b.item)
		var c int
		switch s.Field {
		case query.SortRelevance:
			c = cmp.Compare(b.score, a.score)
			if c == 0 {
				return strings.Compare(ka.id.String(), kb.id.String())
			}
			return c
		case query.SortUpdatedAt:
			c = ka.updated.Compare(kb.updated)
		case query.SortTitle, query.SortName:
			c = strings.Compare(ka.name, kb.name)
		default:
			c = ka.created.Compare(kb.created)
		}
		if s.Desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(ka.id.String(), kb.id.String())
		}
		return c
	})
}

func page[T any](hits []scored[T], p query.Page) []T {
	out := []T{}
	start := p.Offset()
	if start < 0 || start >= len(hits) {
		return out
	}
	end := min(start+p.Limit, len(hits))
	for _, h := range hits[start:end] {
		out = append(out, h.item)
	}
	return out
}
