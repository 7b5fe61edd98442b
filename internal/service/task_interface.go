package service

import (
	"context"
	"suru/internal/models/task"

	"github.com/google/uuid"
)

// TaskRepository - порт хранилища задач.
// Save возвращает repository.ErrVersionConflict, если хранимая версия != Version()-1.
type TaskRepository interface {
	Save(ctx context.Context, t *task.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	FindMany(ctx context.Context, filter task.Filter) ([]*task.Task, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
