package auth_test

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/auth"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestEmail(t *testing.T) {
	email, err := auth.NewEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email.String())
	assert.Equal(t, "example.com", email.Domain())

	same, _ := auth.NewEmail("alice@example.com")
	assert.True(t, email.Equals(same))

	_, err = auth.NewEmail("")
	assert.Equal(t, "Email is required", errs.MessageOf(err))

	for _, raw := range []string{"alice", "alice@example", "a b@example.com", "@example.com"} {
		_, err = auth.NewEmail(raw)
		assert.Equal(t, "Invalid email format", errs.MessageOf(err), raw)
	}
}

func TestPasswordHash(t *testing.T) {
	_, err := auth.NewPasswordHash(hash(t, "secret"))
	require.NoError(t, err)

	_, err = auth.NewPasswordHash("$2b$12$" + strings.Repeat("x", 53))
	require.NoError(t, err)

	_, err = auth.NewPasswordHash("")
	assert.Equal(t, "Password hash is required", errs.MessageOf(err))

	_, err = auth.NewPasswordHash("plaintext")
	assert.Equal(t, "Invalid password hash format", errs.MessageOf(err))

	_, err = auth.NewPasswordHash("$2x$12$" + strings.Repeat("x", 53))
	assert.Equal(t, "Invalid password hash format", errs.MessageOf(err))
}

func TestRefreshToken(t *testing.T) {
	generated := auth.GenerateRefreshToken()
	assert.Len(t, generated.String(), 64)
	assert.False(t, generated.Equals(auth.GenerateRefreshToken()))

	_, err := auth.NewRefreshToken(strings.Repeat("t", 31))
	assert.Equal(t, "Refresh token must be at least 32 characters", errs.MessageOf(err))

	_, err = auth.NewRefreshToken("")
	assert.Equal(t, "Refresh token is required", errs.MessageOf(err))

	token, err := auth.NewRefreshToken(strings.Repeat("t", 32))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("t", 32), token.String())
}

func TestNewSession(t *testing.T) {
	s, err := auth.NewSession(uuid.NewString(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Version())
	assert.False(t, s.IsRevoked())
	assert.True(t, s.IsValid())
	assert.False(t, s.IsExpired())
	assert.Equal(t, s.CreatedAt(), s.UpdatedAt())
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), s.ExpiresAt(), time.Minute)

	_, err = auth.NewSession("user-1", "", 0)
	assert.Equal(t, "Invalid UUID format: user-1", errs.MessageOf(err))

	_, err = auth.NewSession(uuid.NewString(), "short", 0)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestSession_RevokeTwice(t *testing.T) {
	s, err := auth.NewSession(uuid.NewString(), "", 0)
	require.NoError(t, err)

	require.NoError(t, s.Revoke())
	assert.Equal(t, 2, s.Version())
	assert.False(t, s.IsValid())

	err = s.Revoke()
	require.Error(t, err)
	assert.Equal(t, "Session is already revoked", errs.MessageOf(err))
	assert.Equal(t, 2, s.Version())
}

func TestSession_Refresh(t *testing.T) {
	s, err := auth.NewSession(uuid.NewString(), "", time.Hour)
	require.NoError(t, err)
	oldToken := s.RefreshToken()
	oldExpiry := s.ExpiresAt()

	require.NoError(t, s.Refresh(48*time.Hour))
	assert.False(t, oldToken.Equals(s.RefreshToken()))
	assert.True(t, s.ExpiresAt().After(oldExpiry))
	assert.Equal(t, 2, s.Version())

	require.NoError(t, s.Revoke())
	err = s.Refresh(0)
	assert.Equal(t, "Cannot refresh revoked session", errs.MessageOf(err))
	assert.Equal(t, 3, s.Version())
}

func TestSession_RefreshExpired(t *testing.T) {
	now := time.Now().UTC()
	s := auth.ReconstituteSession(auth.SessionSnapshot{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		RefreshToken: strings.Repeat("r", 64),
		ExpiresAt:    now.Add(-time.Second),
		CreatedAt:    now.Add(-time.Hour),
		UpdatedAt:    now.Add(-time.Hour),
		Version:      4,
	})

	assert.True(t, s.IsExpired())
	assert.False(t, s.IsValid())

	err := s.Refresh(0)
	assert.Equal(t, "Cannot refresh expired session", errs.MessageOf(err))
	assert.Equal(t, 4, s.Version())
}

func TestSessionFilter(t *testing.T) {
	s, err := auth.NewSession(uuid.NewString(), "", time.Hour)
	require.NoError(t, err)
	uid := s.UserID()
	yes, no := true, false

	assert.True(t, auth.SessionFilter{UserID: &uid, IsRevoked: &no, IsExpired: &no}.Matches(s, time.Now()))
	assert.True(t, auth.SessionFilter{IsExpired: &yes}.Matches(s, time.Now().Add(2*time.Hour)))
	assert.False(t, auth.SessionFilter{IsRevoked: &yes}.Matches(s, time.Now()))
}

func TestNewUser(t *testing.T) {
	u, err := auth.NewUser("Bob@Example.com", hash(t, "pw"))
	require.NoError(t, err)

	assert.Equal(t, 1, u.Version())
	assert.Equal(t, "bob@example.com", u.Email().String())
	assert.True(t, u.IsActive())
	assert.False(t, u.IsEmailVerified())
	assert.True(t, u.CanLogin())
	assert.Equal(t, u.CreatedAt(), u.UpdatedAt())

	_, err = auth.NewUser("bob@example.com", "nope")
	assert.Equal(t, "Invalid password hash format", errs.MessageOf(err))
}

func TestUser_Transitions(t *testing.T) {
	u, err := auth.NewUser("bob@example.com", hash(t, "pw"))
	require.NoError(t, err)

	require.NoError(t, u.VerifyEmail())
	err = u.VerifyEmail()
	assert.Equal(t, "Email is already verified", errs.MessageOf(err))
	assert.Equal(t, 2, u.Version())

	err = u.Reactivate()
	assert.Equal(t, "User is already active", errs.MessageOf(err))

	require.NoError(t, u.ChangeEmail("new@example.com"))
	assert.False(t, u.IsEmailVerified())
	assert.Equal(t, "new@example.com", u.Email().String())
	assert.Equal(t, 3, u.Version())

	require.NoError(t, u.Deactivate())
	assert.False(t, u.CanLogin())
	err = u.Deactivate()
	assert.Equal(t, "User is already inactive", errs.MessageOf(err))

	err = u.ChangeEmail("other@example.com")
	assert.Equal(t, "Cannot change email for inactive user", errs.MessageOf(err))
	err = u.ChangePassword(hash(t, "pw2"))
	assert.Equal(t, "Cannot change password for inactive user", errs.MessageOf(err))
	assert.Equal(t, 4, u.Version())

	require.NoError(t, u.Reactivate())
	assert.Equal(t, 5, u.Version())
}

func TestUser_ChangePasswordValidates(t *testing.T) {
	u, err := auth.NewUser("bob@example.com", hash(t, "pw"))
	require.NoError(t, err)
	before := u.PasswordHash()

	err = u.ChangePassword("plain")
	assert.Equal(t, "Invalid password hash format", errs.MessageOf(err))
	assert.True(t, before.Equals(u.PasswordHash()))
	assert.Equal(t, 1, u.Version())

	err = u.ChangeEmail("broken")
	assert.Equal(t, "Invalid email format", errs.MessageOf(err))
	assert.Equal(t, 1, u.Version())
}

func TestReconstitute_RoundTrip(t *testing.T) {
	u, err := auth.NewUser("bob@example.com", hash(t, "pw"))
	require.NoError(t, err)
	require.NoError(t, u.VerifyEmail())
	assert.Equal(t, u.Snapshot(), auth.ReconstituteUser(u.Snapshot()).Snapshot())

	s, err := auth.NewSession(u.ID().String(), "", 0)
	require.NoError(t, err)
	require.NoError(t, s.Revoke())
	assert.Equal(t, s.Snapshot(), auth.ReconstituteSession(s.Snapshot()).Snapshot())
}
