package inmemory

import (
	"context"
	"suru/internal/logger"
	"suru/internal/models/task"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"

	"github.com/google/uuid"
)

// TaskStorage хранит снапшоты, поэтому наружу всегда уходят независимые копии задач
type TaskStorage struct {
	store *inmemory.Store[task.Snapshot]
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		store: inmemory.NewStore(task.InitialVersion, func(s task.Snapshot) int { return s.Version }),
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Save(ctx context.Context, t *task.Task) error {
	return s.store.Save(t.ID(), t.Snapshot())
}

func (s *TaskStorage) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return task.Reconstitute(snapshot), nil
}

func (s *TaskStorage) FindMany(ctx context.Context, filter task.Filter) ([]*task.Task, int, error) {
	snapshots, total := s.store.FindPage(func(snap task.Snapshot) bool {
		return filter.Matches(task.Reconstitute(snap))
	}, filter.Limit, filter.Offset)

	tasks := make([]*task.Task, len(snapshots))
	for i, snap := range snapshots {
		tasks[i] = task.Reconstitute(snap)
	}
	return tasks, total, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *TaskStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(id), nil
}
