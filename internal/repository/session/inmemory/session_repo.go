package inmemory

import (
	"context"
	"suru/internal/models/auth"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"
	"time"

	"github.com/google/uuid"
)

type SessionStorage struct {
	store *inmemory.Store[auth.SessionSnapshot]
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		store: inmemory.NewStore(auth.SessionInitialVersion, func(s auth.SessionSnapshot) int { return s.Version }),
	}
}

func (s *SessionStorage) Save(ctx context.Context, session *auth.Session) error {
	return s.store.Save(session.ID(), session.Snapshot())
}

func (s *SessionStorage) FindByID(ctx context.Context, id uuid.UUID) (*auth.Session, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return auth.ReconstituteSession(snapshot), nil
}

func (s *SessionStorage) FindByRefreshToken(ctx context.Context, token string) (*auth.Session, error) {
	found := s.store.Find(func(snap auth.SessionSnapshot) bool { return snap.RefreshToken == token })
	if len(found) == 0 {
		return nil, repo.ErrNotFound
	}
	return auth.ReconstituteSession(found[0]), nil
}

func (s *SessionStorage) FindMany(ctx context.Context, filter auth.SessionFilter) ([]*auth.Session, int, error) {
	now := time.Now()
	snapshots, total := s.store.FindPage(func(snap auth.SessionSnapshot) bool {
		return filter.Matches(auth.ReconstituteSession(snap), now)
	}, filter.Limit, filter.Offset)

	sessions := make([]*auth.Session, len(snapshots))
	for i, snap := range snapshots {
		sessions[i] = auth.ReconstituteSession(snap)
	}
	return sessions, total, nil
}

func (s *SessionStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *SessionStorage) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.DeleteWhere(func(snap auth.SessionSnapshot) bool { return snap.UserID == userID }, 0), nil
}

func (s *SessionStorage) DeleteExpired(ctx context.Context, now time.Time, limit int) (int, error) {
	return s.store.DeleteWhere(func(snap auth.SessionSnapshot) bool { return !snap.ExpiresAt.After(now) }, limit), nil
}

func (s *SessionStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(id), nil
}
