// Package dto - тела HTTP-запросов
package dto

import (
	"suru/internal/models/notification"
	"suru/internal/models/task"
	"time"
)

type CreateTaskRequest struct {
	ProjectID    string     `json:"project_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Tags         []string   `json:"tags"`
	AssigneeID   string     `json:"assignee_id"`
	ParentTaskID string     `json:"parent_task_id"`
}

func (r CreateTaskRequest) Params() task.CreateParams {
	return task.CreateParams{
		ProjectID:    r.ProjectID,
		Title:        r.Title,
		Description:  r.Description,
		Priority:     r.Priority,
		DueDate:      r.DueDate,
		Tags:         r.Tags,
		AssigneeID:   r.AssigneeID,
		ParentTaskID: r.ParentTaskID,
	}
}

// UpdateTaskRequest: отсутствующее поле не меняется, version - ожидаемая версия задачи
type UpdateTaskRequest struct {
	Version      int        `json:"version"`
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	Status       *string    `json:"status,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
}

func (r UpdateTaskRequest) Options() []task.UpdateOption {
	var opts []task.UpdateOption
	if r.Title != nil {
		opts = append(opts, task.WithTitle(*r.Title))
	}
	if r.Description != nil {
		opts = append(opts, task.WithDescription(*r.Description))
	}
	if r.Priority != nil {
		opts = append(opts, task.WithPriority(*r.Priority))
	}
	if r.Status != nil {
		opts = append(opts, task.WithStatus(*r.Status))
	}
	if r.DueDate != nil {
		opts = append(opts, task.WithDueDate(*r.DueDate))
	}
	if r.ClearDueDate {
		opts = append(opts, task.WithoutDueDate())
	}
	if r.Tags != nil {
		opts = append(opts, task.WithTags(*r.Tags))
	}
	return opts
}

type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
}

type CreateSubtaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateDetailsRequest struct {
	Version     int     `json:"version"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      string `json:"team_id"`
}

type OAuthCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangeEmailRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type CreateNotificationRequest struct {
	UserID            string `json:"user_id"`
	Type              string `json:"type"`
	Title             string `json:"title"`
	Message           string `json:"message"`
	RelatedEntityID   string `json:"related_entity_id"`
	RelatedEntityType string `json:"related_entity_type"`
}

func (r CreateNotificationRequest) Params() notification.CreateParams {
	return notification.CreateParams{
		UserID:            r.UserID,
		Type:              r.Type,
		Title:             r.Title,
		Message:           r.Message,
		RelatedEntityID:   r.RelatedEntityID,
		RelatedEntityType: r.RelatedEntityType,
	}
}

type CountResponse struct {
	Count int `json:"count"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}
