package handlers

import (
	"net/http"
	"suru/internal/handlers/dto"
	"suru/internal/middleware"
	"suru/internal/service"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListNotifications)
	r.Post("/", h.CreateNotification)
	r.Delete("/", h.ClearNotifications)
	r.Get("/unread-count", h.CountUnread)
	r.Post("/read-all", h.MarkAllAsRead)
	r.Get("/{id}", h.GetNotification)
	r.Delete("/{id}", h.DeleteNotification)
	r.Post("/{id}/read", h.MarkAsRead)
	r.Post("/{id}/unread", h.MarkAsUnread)
	return r
}

// CreateNotification - служебный маршрут для внутренних отправителей, получатель задаётся в теле
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateNotificationRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.notifications.CreateNotification(r.Context(), request.Params())
	if err != nil {
		handleError(w, r, err, "create_notification")
		return
	}
	responseWithJSON(w, http.StatusCreated, created)
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := queryBool(r, "unread_only")
	page, err := h.notifications.ListNotifications(r.Context(), middleware.GetCaller(r.Context()), service.NotificationQuery{
		Type:       r.URL.Query().Get("type"),
		UnreadOnly: unreadOnly != nil && *unreadOnly,
		Page:       queryInt(r, "page"),
		PageSize:   queryInt(r, "page_size"),
	})
	if err != nil {
		handleError(w, r, err, "list_notifications")
		return
	}
	responseWithJSON(w, http.StatusOK, page)
}

func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	found, err := h.notifications.GetNotification(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "get_notification")
		return
	}
	responseWithJSON(w, http.StatusOK, found)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.notifications.MarkAsRead(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "mark_as_read")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *NotificationHandler) MarkAsUnread(w http.ResponseWriter, r *http.Request) {
	updated, err := h.notifications.MarkAsUnread(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "mark_as_unread")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.MarkAllAsRead(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "mark_all_as_read")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.DeleteNotification(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "delete_notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.ClearNotifications(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "clear_notifications")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.CountUnread(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		handleError(w, r, err, "count_unread")
		return
	}
	responseWithJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}
