package handlers

import (
	"context"
	"net/http"
	"suru/internal/logger"
	"suru/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// HealthChecker - хранилище, которое умеет проверить соединение
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	Tasks         *TaskHandler
	Teams         *TeamHandler
	Projects      *ProjectHandler
	Auth          *AuthHandler
	Notifications *NotificationHandler
	Health        []HealthChecker
}

// Mount вешает все маршруты API на r. Общие middleware подключает вызывающий.
func (h Handlers) Mount(r chi.Router) {
	r.Get("/health", h.healthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Caller)
		r.Mount("/auth", h.Auth.Routes())
		r.Mount("/users", h.Auth.UserRoutes())
		r.Mount("/teams", h.Teams.Routes())
		r.Mount("/projects", h.Projects.Routes())
		r.Mount("/tasks", h.Tasks.Routes())
		r.Mount("/notifications", h.Notifications.Routes())
	})
}

func (h Handlers) healthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	for _, checker := range h.Health {
		if err := checker.HealthCheck(r.Context()); err != nil {
			logger.Error("HTTP: Хранилище недоступно", err)
			responseWithError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Storage is unavailable")
			return
		}
	}
	healthCheck(w)
}
