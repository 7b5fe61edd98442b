package inmemory

import (
	"context"
	"suru/internal/models/notification"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"

	"github.com/google/uuid"
)

type NotificationStorage struct {
	store *inmemory.Store[notification.Snapshot]
}

func NewNotificationStorage() *NotificationStorage {
	return &NotificationStorage{
		store: inmemory.NewStore(notification.InitialVersion, func(s notification.Snapshot) int { return s.Version }),
	}
}

func (s *NotificationStorage) Save(ctx context.Context, n *notification.Notification) error {
	return s.store.Save(n.ID(), n.Snapshot())
}

func (s *NotificationStorage) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return notification.Reconstitute(snapshot), nil
}

func (s *NotificationStorage) FindMany(ctx context.Context, filter notification.Filter) ([]*notification.Notification, int, error) {
	snapshots, total := s.store.FindPage(func(snap notification.Snapshot) bool {
		return filter.Matches(notification.Reconstitute(snap))
	}, filter.Limit, filter.Offset)

	items := make([]*notification.Notification, len(snapshots))
	for i, snap := range snapshots {
		items[i] = notification.Reconstitute(snap)
	}
	return items, total, nil
}

func (s *NotificationStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	unread := s.store.Find(func(snap notification.Snapshot) bool { return snap.UserID == userID && !snap.IsRead })
	return len(unread), nil
}

func (s *NotificationStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *NotificationStorage) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	return s.store.DeleteWhere(func(snap notification.Snapshot) bool { return snap.UserID == userID }, 0), nil
}

func (s *NotificationStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(id), nil
}
