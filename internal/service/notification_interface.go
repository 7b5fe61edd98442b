package service

import (
	"context"
	"suru/internal/models/notification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Save(ctx context.Context, n *notification.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
	FindMany(ctx context.Context, filter notification.Filter) ([]*notification.Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID string) (int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
