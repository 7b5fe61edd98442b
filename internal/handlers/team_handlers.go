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

type TeamHandler struct {
	teams *service.TeamService
}

func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListMyTeams)
	r.Post("/", h.CreateTeam)
	r.Get("/{id}", h.GetTeam)
	r.Patch("/{id}", h.UpdateTeam)
	r.Delete("/{id}", h.DeleteTeam)
	r.Get("/{id}/members", h.ListMembers)
	r.Post("/{id}/members", h.AddMember)
	r.Put("/{id}/members/{userID}", h.UpdateMemberRole)
	r.Delete("/{id}/members/{userID}", h.RemoveMember)
	return r
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateTeamRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.teams.CreateTeam(r.Context(), middleware.GetCaller(r.Context()), request.Name, request.Description)
	if err != nil {
		handleError(w, r, err, "create_team")
		return
	}

	logger.Info("HTTP_OUT: Команда создана", zap.String("team_id", created.ID))
	responseWithJSON(w, http.StatusCreated, created)
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	found, err := h.teams.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "get_team")
		return
	}
	responseWithJSON(w, http.StatusOK, found)
}

// ListMyTeams отдаёт команды вызывающего, чужие списки через user_id не раскрываются
func (h *TeamHandler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if caller.IsAnonymous() {
		responseWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	page, err := h.teams.ListUserTeams(r.Context(), caller.UserID, queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		handleError(w, r, err, "list_teams")
		return
	}
	responseWithJSON(w, http.StatusOK, page)
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	var request dto.UpdateDetailsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.teams.UpdateTeam(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), request.Version, request.Name, request.Description)
	if err != nil {
		handleError(w, r, err, "update_team")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.teams.DeleteTeam(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "delete_team")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.teams.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "list_members")
		return
	}
	responseWithJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var request dto.AddMemberRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.teams.AddMember(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), request.UserID, request.Role)
	if err != nil {
		handleError(w, r, err, "add_member")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *TeamHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var request dto.UpdateMemberRoleRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.teams.UpdateMemberRole(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "userID"), request.Role)
	if err != nil {
		handleError(w, r, err, "update_member_role")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	updated, err := h.teams.RemoveMember(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err, "remove_member")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}
