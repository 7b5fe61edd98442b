package auth

import (
	"suru/internal/errs"
	"suru/internal/models/vo"
	"time"

	"github.com/google/uuid"
)

const (
	SessionInitialVersion = 1
	DefaultSessionTTL     = 30 * 24 * time.Hour
)

type Session struct {
	id           uuid.UUID
	userID       uuid.UUID
	refreshToken RefreshToken
	expiresAt    time.Time
	revoked      bool
	createdAt    time.Time
	updatedAt    time.Time
	version      int
}

type SessionSnapshot struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RefreshToken string
	ExpiresAt    time.Time
	IsRevoked    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int
}

type SessionFilter struct {
	UserID    *uuid.UUID
	IsRevoked *bool
	IsExpired *bool
	Limit     int
	Offset    int
}

func (f SessionFilter) Matches(s *Session, now time.Time) bool {
	if f.UserID != nil && s.userID != *f.UserID {
		return false
	}
	if f.IsRevoked != nil && s.revoked != *f.IsRevoked {
		return false
	}
	if f.IsExpired != nil && s.expiredAt(now) != *f.IsExpired {
		return false
	}
	return true
}

// NewSession: пустой refreshToken - сгенерировать новый, ttl <= 0 - 30 дней
func NewSession(userID, refreshToken string, ttl time.Duration) (*Session, error) {
	uid, err := vo.ParseID("User ID", userID)
	if err != nil {
		return nil, err
	}
	token := GenerateRefreshToken()
	if refreshToken != "" {
		if token, err = NewRefreshToken(refreshToken); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	return &Session{
		id:           vo.NewID(),
		userID:       uid,
		refreshToken: token,
		expiresAt:    now.Add(sessionTTL(ttl)),
		createdAt:    now,
		updatedAt:    now,
		version:      SessionInitialVersion,
	}, nil
}

func ReconstituteSession(s SessionSnapshot) *Session {
	return &Session{
		id:           s.ID,
		userID:       s.UserID,
		refreshToken: RefreshToken{value: s.RefreshToken},
		expiresAt:    s.ExpiresAt,
		revoked:      s.IsRevoked,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		version:      s.Version,
	}
}

func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:           s.id,
		UserID:       s.userID,
		RefreshToken: s.refreshToken.String(),
		ExpiresAt:    s.expiresAt,
		IsRevoked:    s.revoked,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
		Version:      s.version,
	}
}

func (s *Session) Revoke() error {
	if s.revoked {
		return errs.Invariant("Session is already revoked")
	}
	s.revoked = true
	s.touch()
	return nil
}

// Refresh выдаёт новый токен и продлевает срок жизни
func (s *Session) Refresh(ttl time.Duration) error {
	if s.revoked {
		return errs.Invariant("Cannot refresh revoked session")
	}
	if s.IsExpired() {
		return errs.Invariant("Cannot refresh expired session")
	}
	s.refreshToken = GenerateRefreshToken()
	s.expiresAt = time.Now().UTC().Add(sessionTTL(ttl))
	s.touch()
	return nil
}

func (s *Session) IsValid() bool {
	return !s.revoked && !s.IsExpired()
}

func (s *Session) IsExpired() bool {
	return s.expiredAt(time.Now())
}

func (s *Session) expiredAt(now time.Time) bool {
	return !s.expiresAt.After(now)
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}

func (s *Session) ID() uuid.UUID { return s.id }
func (s *Session) UserID() uuid.UUID { return s.userID }
func (s *Session) RefreshToken() RefreshToken { return s.refreshToken }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }
func (s *Session) IsRevoked() bool { return s.revoked }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }
func (s *Session) Version() int { return s.version }

func sessionTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}
