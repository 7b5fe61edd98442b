package handlers

import (
	"net/http"
	"suru/internal/handlers/dto"
	"suru/internal/logger"
	"suru/internal/middleware"
	"suru/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/oauth/{provider}", h.InitiateOAuth)
	r.Post("/oauth/{provider}/callback", h.OAuthCallback)
	r.Post("/refresh", h.RefreshToken)
	r.Post("/logout", h.Logout)
	return r
}

func (h *AuthHandler) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListUsers)
	r.Get("/me", h.GetCurrentUser)
	r.Get("/me/sessions", h.ListSessions)
	r.Put("/me/email", h.ChangeEmail)
	r.Put("/me/password", h.ChangePassword)
	r.Post("/me/verify-email", h.VerifyEmail)
	r.Post("/me/deactivate", h.DeactivateUser)
	r.Post("/me/reactivate", h.ReactivateUser)
	r.Get("/{id}", h.GetUser)
	return r
}

func (h *AuthHandler) InitiateOAuth(w http.ResponseWriter, r *http.Request) {
	start, err := h.auth.InitiateOAuth(chi.URLParam(r, "provider"))
	if err != nil {
		handleError(w, r, err, "initiate_oauth")
		return
	}
	responseWithJSON(w, http.StatusOK, start)
}

func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	var request dto.OAuthCallbackRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	provider := chi.URLParam(r, "provider")
	tokens, err := h.auth.HandleOAuthCallback(r.Context(), provider, request.Code, request.State)
	if err != nil {
		handleError(w, r, err, "oauth_callback")
		return
	}

	logger.Info("HTTP_OUT: Вход через OAuth",
		zap.String("provider", provider),
		zap.String("user_id", tokens.User.ID),
		zap.Bool("new_user", tokens.IsNewUser))

	status := http.StatusOK
	if tokens.IsNewUser {
		status = http.StatusCreated
	}
	responseWithJSON(w, status, tokens)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var request dto.RefreshTokenRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	tokens, err := h.auth.RefreshToken(r.Context(), request.RefreshToken)
	if err != nil {
		handleError(w, r, err, "refresh_token")
		return
	}
	responseWithJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var request dto.RefreshTokenRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	responseWithJSON(w, http.StatusOK, dto.LogoutResponse{Success: h.auth.Logout(r.Context(), request.RefreshToken)})
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetCurrentUser(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "get_current_user")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "get_user")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.auth.ListUsers(r.Context(), service.UserQuery{
		IsActive:        queryBool(r, "active"),
		IsEmailVerified: queryBool(r, "email_verified"),
		Page:            queryInt(r, "page"),
		PageSize:        queryInt(r, "page_size"),
	})
	if err != nil {
		handleError(w, r, err, "list_users")
		return
	}
	responseWithJSON(w, http.StatusOK, page)
}

func (h *AuthHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	page, err := h.auth.ListSessions(r.Context(), middleware.GetCaller(r.Context()), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		handleError(w, r, err, "list_sessions")
		return
	}
	responseWithJSON(w, http.StatusOK, page)
}

func (h *AuthHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var request dto.ChangeEmailRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	user, err := h.auth.ChangeEmail(r.Context(), middleware.GetCaller(r.Context()), request.Email)
	if err != nil {
		handleError(w, r, err, "change_email")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var request dto.ChangePasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	user, err := h.auth.ChangePassword(r.Context(), middleware.GetCaller(r.Context()), request.Password)
	if err != nil {
		handleError(w, r, err, "change_password")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.VerifyEmail(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "verify_email")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.DeactivateUser(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "deactivate_user")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.ReactivateUser(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "reactivate_user")
		return
	}
	responseWithJSON(w, http.StatusOK, user)
}
