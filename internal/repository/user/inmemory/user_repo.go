package inmemory

import (
	"context"
	"suru/internal/models/auth"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"

	"github.com/google/uuid"
)

type UserStorage struct {
	store *inmemory.Store[auth.UserSnapshot]
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		store: inmemory.NewStore(auth.UserInitialVersion, func(s auth.UserSnapshot) int { return s.Version }),
	}
}

// Save не даёт завести второго пользователя с той же почтой
func (s *UserStorage) Save(ctx context.Context, u *auth.User) error {
	snapshot := u.Snapshot()
	taken := s.store.Find(func(other auth.UserSnapshot) bool {
		return other.Email == snapshot.Email && other.ID != snapshot.ID
	})
	if len(taken) > 0 {
		return repo.ErrDuplicate
	}
	return s.store.Save(u.ID(), snapshot)
}

func (s *UserStorage) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	snapshot, ok := s.store.Get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return auth.ReconstituteUser(snapshot), nil
}

func (s *UserStorage) FindByEmail(ctx context.Context, email auth.Email) (*auth.User, error) {
	found := s.store.Find(func(snap auth.UserSnapshot) bool { return snap.Email == email.String() })
	if len(found) == 0 {
		return nil, repo.ErrNotFound
	}
	return auth.ReconstituteUser(found[0]), nil
}

func (s *UserStorage) ExistsByEmail(ctx context.Context, email auth.Email) (bool, error) {
	found := s.store.Find(func(snap auth.UserSnapshot) bool { return snap.Email == email.String() })
	return len(found) > 0, nil
}

func (s *UserStorage) FindMany(ctx context.Context, filter auth.UserFilter) ([]*auth.User, int, error) {
	snapshots, total := s.store.FindPage(func(snap auth.UserSnapshot) bool {
		return filter.Matches(auth.ReconstituteUser(snap))
	}, filter.Limit, filter.Offset)

	users := make([]*auth.User, len(snapshots))
	for i, snap := range snapshots {
		users[i] = auth.ReconstituteUser(snap)
	}
	return users, total, nil
}

func (s *UserStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *UserStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(id), nil
}
