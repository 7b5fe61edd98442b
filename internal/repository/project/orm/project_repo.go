package orm

import (
	"context"
	"fmt"
	"suru/internal/models/project"
	"suru/internal/repository/orm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStorage struct {
	db *gorm.DB
}

func NewProjectStorage(db *gorm.DB) *ProjectStorage {
	return &ProjectStorage{db: db}
}

func (s *ProjectStorage) Save(ctx context.Context, p *project.Project) error {
	snap := p.Snapshot()
	tx := s.db.WithContext(ctx)
	if snap.Version == project.InitialVersion {
		return orm.Insert(tx, &orm.ProjectRecord{
			ID:          snap.ID,
			Name:        snap.Name,
			Description: snap.Description,
			TeamID:      snap.TeamID,
			Archived:    snap.Archived,
			CreatedBy:   snap.CreatedBy,
			CreatedAt:   snap.CreatedAt,
			UpdatedAt:   snap.UpdatedAt,
			Version:     snap.Version,
		})
	}
	return orm.CompareAndSwap(tx, &orm.ProjectRecord{}, snap.ID, snap.Version, map[string]any{
		"name":        snap.Name,
		"description": snap.Description,
		"archived":    snap.Archived,
		"updated_at":  snap.UpdatedAt,
	})
}

func (s *ProjectStorage) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var record orm.ProjectRecord
	if err := orm.First(ctx, s.db, &record, id); err != nil {
		return nil, err
	}
	return fromRecord(record), nil
}

func (s *ProjectStorage) FindMany(ctx context.Context, filter project.Filter) ([]*project.Project, int, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.TeamID != nil {
			db = db.Where("team_id = ?", *filter.TeamID)
		}
		if filter.CreatedBy != "" {
			db = db.Where("created_by = ?", filter.CreatedBy)
		}
		if filter.Archived != nil {
			db = db.Where("archived = ?", *filter.Archived)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&orm.ProjectRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("подсчёт проектов: %w", err)
	}

	var records []orm.ProjectRecord
	err := s.db.WithContext(ctx).Scopes(scope, orm.Paginate(filter.Limit, filter.Offset)).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("получение проектов: %w", err)
	}

	projects := make([]*project.Project, len(records))
	for i, r := range records {
		projects[i] = fromRecord(r)
	}
	return projects, int(total), nil
}

func (s *ProjectStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return orm.DeleteByID(ctx, s.db, &orm.ProjectRecord{}, id)
}

func (s *ProjectStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return orm.Exists(ctx, s.db, &orm.ProjectRecord{}, id)
}

func fromRecord(r orm.ProjectRecord) *project.Project {
	return project.Reconstitute(project.Snapshot{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TeamID:      r.TeamID,
		Archived:    r.Archived,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	})
}
