package auth

import (
	"suru/internal/errs"
	"suru/internal/models/vo"
	"time"

	"github.com/google/uuid"
)

const UserInitialVersion = 1

type User struct {
	id            uuid.UUID
	email         Email
	passwordHash  PasswordHash
	active        bool
	emailVerified bool
	createdAt     time.Time
	updatedAt     time.Time
	version       int
}

type UserSnapshot struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string
	IsActive        bool
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

type UserFilter struct {
	IsActive        *bool
	IsEmailVerified *bool
	Limit           int
	Offset          int
}

func (f UserFilter) Matches(u *User) bool {
	if f.IsActive != nil && u.active != *f.IsActive {
		return false
	}
	if f.IsEmailVerified != nil && u.emailVerified != *f.IsEmailVerified {
		return false
	}
	return true
}

func NewUser(email, passwordHash string) (*User, error) {
	parsedEmail, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := NewPasswordHash(passwordHash)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:           vo.NewID(),
		email:        parsedEmail,
		passwordHash: hash,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
		version:      UserInitialVersion,
	}, nil
}

func ReconstituteUser(s UserSnapshot) *User {
	return &User{
		id:            s.ID,
		email:         Email{value: s.Email},
		passwordHash:  PasswordHash{value: s.PasswordHash},
		active:        s.IsActive,
		emailVerified: s.IsEmailVerified,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		version:       s.Version,
	}
}

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:              u.id,
		Email:           u.email.String(),
		PasswordHash:    u.passwordHash.String(),
		IsActive:        u.active,
		IsEmailVerified: u.emailVerified,
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
		Version:         u.version,
	}
}

func (u *User) ChangePassword(newHash string) error {
	if !u.active {
		return errs.Invariant("Cannot change password for inactive user")
	}
	hash, err := NewPasswordHash(newHash)
	if err != nil {
		return err
	}
	u.passwordHash = hash
	u.touch()
	return nil
}

// ChangeEmail сбрасывает подтверждение почты
func (u *User) ChangeEmail(newEmail string) error {
	if !u.active {
		return errs.Invariant("Cannot change email for inactive user")
	}
	email, err := NewEmail(newEmail)
	if err != nil {
		return err
	}
	u.email = email
	u.emailVerified = false
	u.touch()
	return nil
}

func (u *User) VerifyEmail() error {
	if u.emailVerified {
		return errs.Invariant("Email is already verified")
	}
	u.emailVerified = true
	u.touch()
	return nil
}

func (u *User) Deactivate() error {
	if !u.active {
		return errs.Invariant("User is already inactive")
	}
	u.active = false
	u.touch()
	return nil
}

func (u *User) Reactivate() error {
	if u.active {
		return errs.Invariant("User is already active")
	}
	u.active = true
	u.touch()
	return nil
}

func (u *User) CanLogin() bool {
	return u.active
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
	u.version++
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Email() Email { return u.email }
func (u *User) PasswordHash() PasswordHash { return u.passwordHash }
func (u *User) IsActive() bool { return u.active }
func (u *User) IsEmailVerified() bool { return u.emailVerified }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
func (u *User) Version() int { return u.version }
