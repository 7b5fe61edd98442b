package inmemory

import (
	"context"
	"suru/internal/models/project"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"

	"github.com/google/uuid"
)

type ProjectStorage struct {
	store *inmemory.Store[project.Snapshot]
}

func NewProjectStorage() *ProjectStorage {
	return &ProjectStorage{
		store: inmemory.NewStore(project.InitialVersion, func(s project.Snapshot) int { return s.Version }),
	}
}

func (s *ProjectStorage) Save(ctx context.Context, p *project.Project) error {
	return s.store.Save(p.ID(), p.Snapshot())
}

func (s *ProjectStorage) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return project.Reconstitute(snapshot), nil
}

func (s *ProjectStorage) FindMany(ctx context.Context, filter project.Filter) ([]*project.Project, int, error) {
	snapshots, total := s.store.FindPage(func(snap project.Snapshot) bool {
		return filter.Matches(project.Reconstitute(snap))
	}, filter.Limit, filter.Offset)

	projects := make([]*project.Project, len(snapshots))
	for i, snap := range snapshots {
		projects[i] = project.Reconstitute(snap)
	}
	return projects, total, nil
}

func (s *ProjectStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *ProjectStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(id), nil
}
