package service

import (
	"context"
	"suru/internal/models/auth"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Save(ctx context.Context, u *auth.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	FindByEmail(ctx context.Context, email auth.Email) (*auth.User, error)
	ExistsByEmail(ctx context.Context, email auth.Email) (bool, error)
	FindMany(ctx context.Context, filter auth.UserFilter) ([]*auth.User, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type SessionRepository interface {
	Save(ctx context.Context, s *auth.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*auth.Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*auth.Session, error)
	FindMany(ctx context.Context, filter auth.SessionFilter) ([]*auth.Session, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	// DeleteExpired удаляет до limit сессий с expiresAt <= now
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PasswordHasher превращает пароль в bcrypt-хэш
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Identity - профиль пользователя от внешнего OAuth-провайдера
type Identity struct {
	Provider string
	Subject  string
	Email    string
}

// IdentityProvider - внешний OAuth-провайдер
type IdentityProvider interface {
	AuthURL(provider, state string) (string, error)
	Exchange(ctx context.Context, provider, code string) (Identity, error)
}
