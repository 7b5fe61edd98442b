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

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListProjects)
	r.Post("/", h.CreateProject)
	r.Get("/{id}", h.GetProject)
	r.Patch("/{id}", h.UpdateProject)
	r.Delete("/{id}", h.DeleteProject)
	r.Post("/{id}/archive", h.ArchiveProject)
	r.Post("/{id}/unarchive", h.UnarchiveProject)
	return r
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateProjectRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.projects.CreateProject(r.Context(), middleware.GetCaller(r.Context()), request.Name, request.Description, request.TeamID)
	if err != nil {
		handleError(w, r, err, "create_project")
		return
	}

	logger.Info("HTTP_OUT: Проект создан", zap.String("project_id", created.ID), zap.String("team_id", created.TeamID))
	responseWithJSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	found, err := h.projects.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "get_project")
		return
	}
	responseWithJSON(w, http.StatusOK, found)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := h.projects.ListProjects(r.Context(), service.ProjectQuery{
		TeamID:   r.URL.Query().Get("team_id"),
		Archived: queryBool(r, "archived"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		handleError(w, r, err, "list_projects")
		return
	}
	responseWithJSON(w, http.StatusOK, page)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var request dto.UpdateDetailsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.projects.UpdateProject(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), request.Version, request.Name, request.Description)
	if err != nil {
		handleError(w, r, err, "update_project")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	updated, err := h.projects.ArchiveProject(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "archive_project")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) UnarchiveProject(w http.ResponseWriter, r *http.Request) {
	updated, err := h.projects.UnarchiveProject(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "unarchive_project")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteProject(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "delete_project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
