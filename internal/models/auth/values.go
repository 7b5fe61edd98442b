package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"suru/internal/errs"
)

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordHashPattern = regexp.MustCompile(`^\$2[aby]\$\d{2}\$.{53}$`)
)

type Email struct {
	value string
}

// NewEmail приводит адрес к нижнему регистру и обрезает пробелы
func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Email{}, errs.Validation("email", errs.RuleRequired, "Email is required")
	}
	if !emailPattern.MatchString(value) {
		return Email{}, errs.Validation("email", errs.RuleFormat, "Invalid email format")
	}
	return Email{value: value}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}

// PasswordHash хранит только bcrypt-хэш, сам пароль сюда не попадает
type PasswordHash struct {
	value string
}

func NewPasswordHash(raw string) (PasswordHash, error) {
	if raw == "" {
		return PasswordHash{}, errs.Validation("passwordHash", errs.RuleRequired, "Password hash is required")
	}
	if !passwordHashPattern.MatchString(raw) {
		return PasswordHash{}, errs.Validation("passwordHash", errs.RuleFormat, "Invalid password hash format")
	}
	return PasswordHash{value: raw}, nil
}

func (p PasswordHash) String() string {
	return p.value
}

func (p PasswordHash) Equals(other PasswordHash) bool {
	return p.value == other.value
}

const (
	RefreshTokenMinLength = 32
	refreshTokenBytes     = 32
)

type RefreshToken struct {
	value string
}

func NewRefreshToken(raw string) (RefreshToken, error) {
	if raw == "" {
		return RefreshToken{}, errs.Validation("refreshToken", errs.RuleRequired, "Refresh token is required")
	}
	if len(raw) < RefreshTokenMinLength {
		return RefreshToken{}, errs.Validation("refreshToken", errs.RuleLength,
			fmt.Sprintf("Refresh token must be at least %d characters", RefreshTokenMinLength))
	}
	return RefreshToken{value: raw}, nil
}

// GenerateRefreshToken - 64 hex-символа из crypto/rand
func GenerateRefreshToken() RefreshToken {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return RefreshToken{value: hex.EncodeToString(buf)}
}

func (r RefreshToken) String() string {
	return r.value
}

func (r RefreshToken) Equals(other RefreshToken) bool {
	return r.value == other.value
}
