package inmemory

import (
	"context"
	"suru/internal/models/team"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"

	"github.com/google/uuid"
)

// TeamStorage сохраняет команду целиком вместе с участниками
type TeamStorage struct {
	store *inmemory.Store[team.Snapshot]
}

func NewTeamStorage() *TeamStorage {
	return &TeamStorage{
		store: inmemory.NewStore(team.InitialVersion, func(s team.Snapshot) int { return s.Version }),
	}
}

func (s *TeamStorage) Save(ctx context.Context, t *team.Team) error {
	return s.store.Save(t.ID(), t.Snapshot())
}

func (s *TeamStorage) FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return team.Reconstitute(snapshot), nil
}

func (s *TeamStorage) FindMany(ctx context.Context, filter team.Filter) ([]*team.Team, int, error) {
	snapshots, total := s.store.FindPage(func(snap team.Snapshot) bool {
		return filter.Matches(team.Reconstitute(snap))
	}, filter.Limit, filter.Offset)

	teams := make([]*team.Team, len(snapshots))
	for i, snap := range snapshots {
		teams[i] = team.Reconstitute(snap)
	}
	return teams, total, nil
}

func (s *TeamStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *TeamStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(id), nil
}
