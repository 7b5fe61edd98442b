package service

import (
	"context"
	"errors"
	"suru/internal/dto"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/models/auth"
	"suru/internal/models/vo"
	rep "suru/internal/repository"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	resourceUser    = "User"
	resourceSession = "Session"

	minPasswordLength = 8
	// bcrypt игнорирует всё после 72 байт
	maxPasswordLength = 72
)

type AuthService struct {
	users      UserRepository
	sessions   SessionRepository
	hasher     PasswordHasher
	identity   IdentityProvider
	sessionTTL time.Duration
}

type AuthOption func(*AuthService)

func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

func NewAuthService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, identity IdentityProvider, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		identity:   identity,
		sessionTTL: auth.DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type OAuthStart struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

func (s *AuthService) InitiateOAuth(provider string) (OAuthStart, error) {
	state := uuid.NewString()
	url, err := s.identity.AuthURL(provider, state)
	if err != nil {
		return OAuthStart{}, err
	}
	return OAuthStart{AuthorizationURL: url, State: state}, nil
}

// HandleOAuthCallback находит пользователя по почте или создаёт его, затем открывает сессию
func (s *AuthService) HandleOAuthCallback(ctx context.Context, provider, code, state string) (dto.AuthTokensDTO, error) {
	if state == "" {
		return dto.AuthTokensDTO{}, errs.Unauthorized("Invalid state token")
	}
	identity, err := s.identity.Exchange(ctx, provider, code)
	if err != nil {
		return dto.AuthTokensDTO{}, err
	}
	email, err := auth.NewEmail(identity.Email)
	if err != nil {
		return dto.AuthTokensDTO{}, err
	}

	user, isNew, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return dto.AuthTokensDTO{}, err
	}
	if !user.CanLogin() {
		return dto.AuthTokensDTO{}, errs.Unauthorized("User account is inactive")
	}

	session, err := auth.NewSession(user.ID().String(), "", s.sessionTTL)
	if err != nil {
		return dto.AuthTokensDTO{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return dto.AuthTokensDTO{}, translate(err, resourceSession, session.ID().String())
	}

	logger.Info("Service: Вход через OAuth",
		zap.String("provider", provider),
		zap.String("user_id", user.ID().String()),
		zap.Bool("new_user", isNew),
	)
	out := dto.FromAuth(user, session)
	out.IsNewUser = isNew
	return out, nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, email auth.Email) (*auth.User, bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, rep.ErrNotFound) {
		return nil, false, translate(err, resourceUser, email.String())
	}

	// у OAuth-пользователя нет своего пароля, храним хэш случайного секрета
	hash, err := s.hasher.Hash(auth.GenerateRefreshToken().String())
	if err != nil {
		return nil, false, err
	}
	user, err = auth.NewUser(email.String(), hash)
	if err != nil {
		return nil, false, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, false, translate(err, resourceUser, user.ID().String())
	}
	return user, true, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (dto.AuthTokensDTO, error) {
	token, err := auth.NewRefreshToken(refreshToken)
	if err != nil {
		return dto.AuthTokensDTO{}, err
	}
	session, err := s.sessions.FindByRefreshToken(ctx, token.String())
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return dto.AuthTokensDTO{}, errs.Unauthorized("Invalid refresh token")
		}
		return dto.AuthTokensDTO{}, translate(err, resourceSession, "refresh")
	}
	if !session.IsValid() {
		return dto.AuthTokensDTO{}, errs.Unauthorized("Session is invalid or expired")
	}

	user, err := s.users.FindByID(ctx, session.UserID())
	if err != nil {
		return dto.AuthTokensDTO{}, translate(err, resourceUser, session.UserID().String())
	}
	if !user.CanLogin() {
		return dto.AuthTokensDTO{}, errs.Unauthorized("User account is inactive")
	}

	if err := session.Refresh(s.sessionTTL); err != nil {
		return dto.AuthTokensDTO{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return dto.AuthTokensDTO{}, translate(err, resourceSession, session.ID().String())
	}
	return dto.FromAuth(user, session), nil
}

// Logout всегда успешен: клиент не должен повторять выход из-за сбоя хранилища
func (s *AuthService) Logout(ctx context.Context, refreshToken string) bool {
	if err := s.revoke(ctx, refreshToken); err != nil {
		logger.Warn("Service: Ошибка при выходе, считаем выход выполненным", zap.Error(err))
	}
	return true
}

func (s *AuthService) revoke(ctx context.Context, refreshToken string) error {
	token, err := auth.NewRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	session, err := s.sessions.FindByRefreshToken(ctx, token.String())
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := session.Revoke(); err != nil {
		return err
	}
	return s.sessions.Save(ctx, session)
}

func (s *AuthService) GetUser(ctx context.Context, id string) (dto.UserDTO, error) {
	uid, err := vo.ParseID("User ID", id)
	if err != nil {
		return dto.UserDTO{}, err
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return dto.UserDTO{}, translate(err, resourceUser, id)
	}
	return dto.FromUser(u), nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, caller Caller) (dto.UserDTO, error) {
	u, err := s.loadCaller(ctx, caller)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return dto.FromUser(u), nil
}

type UserQuery struct {
	IsActive        *bool
	IsEmailVerified *bool
	Page            int
	PageSize        int
}

func (s *AuthService) ListUsers(ctx context.Context, q UserQuery) (dto.Page[dto.UserDTO], error) {
	page, limit, offset := pageWindow(q.Page, q.PageSize)
	users, total, err := s.users.FindMany(ctx, auth.UserFilter{
		IsActive:        q.IsActive,
		IsEmailVerified: q.IsEmailVerified,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return dto.Page[dto.UserDTO]{}, translate(err, resourceUser, "list")
	}
	items := make([]dto.UserDTO, len(users))
	for i, u := range users {
		items[i] = dto.FromUser(u)
	}
	return dto.NewPage(items, total, page, limit), nil
}

// ListSessions - активные и отозванные сессии текущего пользователя
func (s *AuthService) ListSessions(ctx context.Context, caller Caller, page, pageSize int) (dto.Page[dto.SessionDTO], error) {
	uid, err := caller.userUUID()
	if err != nil {
		return dto.Page[dto.SessionDTO]{}, err
	}
	page, limit, offset := pageWindow(page, pageSize)
	sessions, total, err := s.sessions.FindMany(ctx, auth.SessionFilter{UserID: &uid, Limit: limit, Offset: offset})
	if err != nil {
		return dto.Page[dto.SessionDTO]{}, translate(err, resourceSession, "list")
	}
	items := make([]dto.SessionDTO, len(sessions))
	for i, sess := range sessions {
		items[i] = dto.FromSession(sess)
	}
	return dto.NewPage(items, total, page, limit), nil
}

func (s *AuthService) ChangeEmail(ctx context.Context, caller Caller, newEmail string) (dto.UserDTO, error) {
	email, err := auth.NewEmail(newEmail)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return s.mutate(ctx, caller, func(u *auth.User) error {
		if u.Email().Equals(email) {
			return errs.Invariant("New email must differ from the current one")
		}
		taken, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return translate(err, resourceUser, email.String())
		}
		if taken {
			return errs.Conflict("Email is already in use", nil)
		}
		return u.ChangeEmail(email.String())
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, caller Caller, newPassword string) (dto.UserDTO, error) {
	if n := utf8.RuneCountInString(newPassword); n < minPasswordLength || len(newPassword) > maxPasswordLength {
		return dto.UserDTO{}, errs.Validation("password", errs.RuleLength, "Password must be between 8 and 72 characters")
	}
	return s.mutate(ctx, caller, func(u *auth.User) error {
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		return u.ChangePassword(hash)
	})
}

func (s *AuthService) VerifyEmail(ctx context.Context, caller Caller) (dto.UserDTO, error) {
	return s.mutate(ctx, caller, (*auth.User).VerifyEmail)
}

// DeactivateUser блокирует вход и удаляет все сессии пользователя
func (s *AuthService) DeactivateUser(ctx context.Context, caller Caller) (dto.UserDTO, error) {
	out, err := s.mutate(ctx, caller, (*auth.User).Deactivate)
	if err != nil {
		return dto.UserDTO{}, err
	}
	removed, err := s.sessions.DeleteByUserID(ctx, uuid.MustParse(out.ID))
	if err != nil {
		logger.Error("Service: Не удалось удалить сессии деактивированного пользователя", err, zap.String("user_id", out.ID))
		return out, nil
	}
	logger.Info("Service: Пользователь деактивирован", zap.String("user_id", out.ID), zap.Int("sessions_removed", removed))
	return out, nil
}

func (s *AuthService) ReactivateUser(ctx context.Context, caller Caller) (dto.UserDTO, error) {
	return s.mutate(ctx, caller, (*auth.User).Reactivate)
}

func (s *AuthService) mutate(ctx context.Context, caller Caller, apply func(*auth.User) error) (dto.UserDTO, error) {
	u, err := s.loadCaller(ctx, caller)
	if err != nil {
		return dto.UserDTO{}, err
	}
	if err := apply(u); err != nil {
		return dto.UserDTO{}, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return dto.UserDTO{}, translate(err, resourceUser, u.ID().String())
	}
	return dto.FromUser(u), nil
}

func (s *AuthService) loadCaller(ctx context.Context, caller Caller) (*auth.User, error) {
	uid, err := caller.userUUID()
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, translate(err, resourceUser, uid.String())
	}
	return u, nil
}
