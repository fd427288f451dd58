package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/query"
	"github.com/rohits-web03/devfolio/internal/repositories"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

type ProjectService struct {
	projects repositories.ProjectRepository
	profiles repositories.ProfileRepository
	log      zerolog.Logger
}

func NewProjectService(projects repositories.ProjectRepository, profiles repositories.ProfileRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, profiles: profiles, log: log}
}

func (s *ProjectService) List(ctx context.Context, q query.ProjectQuery) ([]models.Project, int64, error) {
	return s.projects.List(ctx, q)
}

// Mine lists the caller's projects, whatever owner the query named.
func (s *ProjectService) Mine(ctx context.Context, identity uuid.UUID, q query.ProjectQuery) ([]models.Project, int64, error) {
	q.Owner = &identity
	return s.projects.List(ctx, q)
}

func (s *ProjectService) TopSkills(ctx context.Context, limit int) ([]models.SkillCount, error) {
	return s.projects.TopSkills(ctx, limit)
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

// Create stores a project owned by identity. The owner never comes from the
// request body.
func (s *ProjectService) Create(ctx context.Context, identity uuid.UUID, c policy.ProjectChanges) (*models.Project, error) {
	if _, err := s.profiles.Get(ctx, identity); err != nil {
		return nil, err
	}
	p := &models.Project{OwnerID: identity, Skills: []string{}}
	c.Apply(p)
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", p.ID.String()).Str("owner_id", identity.String()).Msg("project created")
	return p, nil
}

// owned loads a project and checks identity may act on it. A missing project
// is NotFound before any ownership check.
func (s *ProjectService) owned(ctx context.Context, identity, id uuid.UUID, action policy.Action) (*models.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeProject(identity, p, action); err != nil {
		return nil, err
	}
	return p, nil
}

// Update, PatchSkills and PatchLinks take the raw request body. It is decoded
// only after the project is loaded and the caller authorized.
func (s *ProjectService) Update(ctx context.Context, identity, id uuid.UUID, body []byte) (*models.Project, error) {
	p, err := s.owned(ctx, identity, id, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	c, err := policy.DecodeProjectUpdate(body)
	if err != nil {
		return nil, err
	}
	c.Apply(p)
	if err := s.projects.Update(ctx, p, c.Columns()...); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, identity, id uuid.UUID) error {
	p, err := s.owned(ctx, identity, id, policy.ActionDelete)
	if err != nil {
		return err
	}
	return s.projects.Delete(ctx, p.ID)
}

func (s *ProjectService) PatchSkills(ctx context.Context, identity, id uuid.UUID, body []byte) (*models.Project, error) {
	p, err := s.owned(ctx, identity, id, policy.ActionPatchSkills)
	if err != nil {
		return nil, err
	}
	skills, err := policy.DecodeSkills(body)
	if err != nil {
		return nil, err
	}
	p.Skills = skills
	if err := s.projects.Update(ctx, p, "skills"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) PatchLinks(ctx context.Context, identity, id uuid.UUID, body []byte) (*models.Project, error) {
	p, err := s.owned(ctx, identity, id, policy.ActionPatchLinks)
	if err != nil {
		return nil, err
	}
	patch, err := policy.DecodeProjectLinks(body)
	if err != nil {
		return nil, err
	}
	p.Links = datatypes.NewJSONType(patch.Merge(p.Links.Data()))
	if err := s.projects.Update(ctx, p, "links"); err != nil {
		return nil, err
	}
	return p, nil
}
