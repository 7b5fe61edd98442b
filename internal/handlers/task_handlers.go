package handlers

import (
	"net/http"
	"suru/internal/handlers/dto"
	"suru/internal/logger"
	"suru/internal/middleware"
	"suru/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/{id}", h.GetTask)
	r.Patch("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
	r.Put("/{id}/assignee", h.AssignTask)
	r.Post("/{id}/subtasks", h.AddSubtask)
	return r
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.tasks.CreateTask(r.Context(), middleware.GetCaller(r.Context()), request.Params())
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	found, err := h.tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "get_task")
		return
	}
	responseWithJSON(w, http.StatusOK, found)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.tasks.ListTasks(r.Context(), service.TaskQuery{
		ProjectID:    query.Get("project_id"),
		Status:       query.Get("status"),
		AssigneeID:   query.Get("assignee_id"),
		Tags:         queryList(r, "tags"),
		ParentTaskID: query.Get("parent_task_id"),
		Page:         queryInt(r, "page"),
		PageSize:     queryInt(r, "page_size"),
	})
	if err != nil {
		handleError(w, r, err, "list_tasks")
		return
	}
	responseWithJSON(w, http.StatusOK, page)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.tasks.UpdateTask(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), request.Version, request.Options()...)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", updated.ID),
		zap.Int("version", updated.Version),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	var request dto.AssignTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.tasks.AssignTask(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), request.AssigneeID)
	if err != nil {
		handleError(w, r, err, "assign_task")
		return
	}
	responseWithJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateSubtaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.tasks.AddSubtask(r.Context(), middleware.GetCaller(r.Context()), chi.URLParam(r, "id"), request.Title, request.Description)
	if err != nil {
		handleError(w, r, err, "add_subtask")
		return
	}
	responseWithJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tasks.DeleteTask(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		handleError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена", zap.String("task_id", id))
	w.WriteHeader(http.StatusNoContent)
}
