package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/query"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// GormStore is the postgres engine.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Profiles() ProfileRepository { return &profileRepository{db: s.db} }

func (s *GormStore) Projects() ProjectRepository { return &projectRepository{db: s.db} }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type profileRepository struct {
	db *gorm.DB
}

func (r *profileRepository) Create(ctx context.Context, p *models.Profile) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error, entityProfile)
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateError(err, entityProfile)
	}
	return &p, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, translateError(err, entityProfile)
	}
	return &p, nil
}

func (r *profileRepository) Singleton(ctx context.Context) (*models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Order("created_at").Limit(2).Find(&profiles).Error; err != nil {
		return nil, translateError(err, entityProfile)
	}
	switch len(profiles) {
	case 0:
		return nil, apperrors.NotFound("Profile not found")
	case 1:
		return &profiles[0], nil
	default:
		return nil, apperrors.Conflict("More than one profile exists, use /profiles/{id}")
	}
}

func (r *profileRepository) Update(ctx context.Context, p *models.Profile, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(p).Select(withUpdatedAt(columns)).Updates(p)
	if res.Error != nil {
		return translateError(res.Error, entityProfile)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Profile not found")
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Profile{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Profile not found")
		}
		return nil
	})
	return translateError(err, entityProfile)
}

func (r *profileRepository) List(ctx context.Context, q query.ProfileQuery) ([]models.Profile, int64, error) {
	filtered := func(ctx context.Context) *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Profile{}).
			Scopes(textSearch(q.Text), skillFilter(q.Skills))
	}

	var (
		profiles []models.Profile
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return filtered(gctx).Scopes(orderBy(q.Sort, q.Text), paginate(q.Page)).Find(&profiles).Error
	})
	g.Go(func() error {
		return filtered(gctx).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, translateError(err, entityProfile)
	}
	return profiles, total, nil
}
