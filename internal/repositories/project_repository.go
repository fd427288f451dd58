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

type projectRepository struct {
	db *gorm.DB
}

func (r *projectRepository) Create(ctx context.Context, p *models.Project) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error, entityProject)
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateError(err, entityProject)
	}
	return &p, nil
}

func (r *projectRepository) Update(ctx context.Context, p *models.Project, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(p).Select(withUpdatedAt(columns)).Updates(p)
	if res.Error != nil {
		return translateError(res.Error, entityProject)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Project not found")
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return translateError(res.Error, entityProject)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Project not found")
	}
	return nil
}

func (r *projectRepository) List(ctx context.Context, q query.ProjectQuery) ([]models.Project, int64, error) {
	filtered := func(ctx context.Context) *gorm.DB {
		db := r.db.WithContext(ctx).Model(&models.Project{}).
			Scopes(textSearch(q.Text), skillFilter(q.Skills))
		if q.Owner != nil {
			db = db.Where("owner_id = ?", *q.Owner)
		}
		return db
	}

	var (
		projects []models.Project
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return filtered(gctx).Scopes(orderBy(q.Sort, q.Text), paginate(q.Page)).Find(&projects).Error
	})
	g.Go(func() error {
		return filtered(gctx).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, translateError(err, entityProject)
	}
	return projects, total, nil
}

func (r *projectRepository) TopSkills(ctx context.Context, limit int) ([]models.SkillCount, error) {
	var out []models.SkillCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.skill AS skill, count(*) AS count
		FROM projects p CROSS JOIN LATERAL unnest(p.skills) AS s(skill)
		GROUP BY s.skill
		ORDER BY count DESC, s.skill ASC
		LIMIT ?`, limit).Scan(&out).Error
	if err != nil {
		return nil, translateError(err, entityProject)
	}
	return out, nil
}
