package service

import (
	"context"
	"suru/internal/models/project"
	"suru/internal/models/team"

	"github.com/google/uuid"
)

// TeamRepository сохраняет команду вместе с участниками одной операцией
type TeamRepository interface {
	Save(ctx context.Context, t *team.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error)
	FindMany(ctx context.Context, filter team.Filter) ([]*team.Team, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ProjectRepository interface {
	Save(ctx context.Context, p *project.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	FindMany(ctx context.Context, filter project.Filter) ([]*project.Project, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
