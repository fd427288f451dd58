// Package repositories is the resource store facade: one repository per kind,
// backed by postgres through gorm or by an in-process memory engine.
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/query"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// Singleton returns the only profile. NotFound when there is none,
	// Conflict when there is more than one.
	Singleton(ctx context.Context) (*models.Profile, error)
	// Update writes the named columns of p. NotFound when the row is gone.
	Update(ctx context.Context, p *models.Profile, columns ...string) error
	// Delete removes the profile and every project it owns in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q query.ProfileQuery) ([]models.Profile, int64, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, p *models.Project, columns ...string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q query.ProjectQuery) ([]models.Project, int64, error)
	TopSkills(ctx context.Context, limit int) ([]models.SkillCount, error)
}

type Store interface {
	Profiles() ProfileRepository
	Projects() ProjectRepository
	Ping(ctx context.Context) error
}
