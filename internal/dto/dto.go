package dto

import (
	"suru/internal/models/auth"
	"suru/internal/models/notification"
	"suru/internal/models/project"
	"suru/internal/models/task"
	"suru/internal/models/team"
	"time"
)

type TaskDTO struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Tags         []string   `json:"tags"`
	AssigneeID   string     `json:"assignee_id,omitempty"`
	ParentTaskID string     `json:"parent_task_id,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
	IsOverdue    bool       `json:"is_overdue"`
}

func FromTask(t *task.Task) TaskDTO {
	out := TaskDTO{
		ID:          t.ID().String(),
		ProjectID:   t.ProjectID().String(),
		Title:       t.Title().String(),
		Description: t.Description(),
		Status:      t.Status().String(),
		Priority:    t.Priority().String(),
		DueDate:     t.DueDate(),
		Tags:        t.Tags(),
		AssigneeID:  t.AssigneeID(),
		CreatedBy:   t.CreatedBy(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		Version:     t.Version(),
		IsOverdue:   t.IsOverdue(time.Now()),
	}
	if parent := t.ParentTaskID(); parent != nil {
		out.ParentTaskID = parent.String()
	}
	return out
}

func FromTasks(tasks []*task.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type TeamMemberDTO struct {
	UserID   string    `json:"user_id"`
	TeamID   string    `json:"team_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type TeamDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedBy   string          `json:"created_by"`
	Members     []TeamMemberDTO `json:"members"`
	MemberCount int             `json:"member_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func FromMember(m team.Member) TeamMemberDTO {
	return TeamMemberDTO{
		UserID:   m.UserID,
		TeamID:   m.TeamID.String(),
		Role:     m.Role.String(),
		JoinedAt: m.JoinedAt,
	}
}

func FromMembers(members []team.Member) []TeamMemberDTO {
	result := make([]TeamMemberDTO, len(members))
	for i, m := range members {
		result[i] = FromMember(m)
	}
	return result
}

func FromTeam(t *team.Team) TeamDTO {
	return TeamDTO{
		ID:          t.ID().String(),
		Name:        t.Name().String(),
		Description: t.Description(),
		CreatedBy:   t.CreatedBy(),
		Members:     FromMembers(t.Members()),
		MemberCount: t.MemberCount(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		Version:     t.Version(),
	}
}

func FromTeams(teams []*team.Team) []TeamDTO {
	result := make([]TeamDTO, len(teams))
	for i, t := range teams {
		result[i] = FromTeam(t)
	}
	return result
}

type ProjectDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TeamID      string    `json:"team_id"`
	IsArchived  bool      `json:"is_archived"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

func FromProject(p *project.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID().String(),
		Name:        p.Name().String(),
		Description: p.Description(),
		TeamID:      p.TeamID().String(),
		IsArchived:  p.IsArchived(),
		CreatedBy:   p.CreatedBy(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
		Version:     p.Version(),
	}
}

func FromProjects(projects []*project.Project) []ProjectDTO {
	result := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		result[i] = FromProject(p)
	}
	return result
}

// UserDTO не содержит хэш пароля
type UserDTO struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	IsActive        bool      `json:"is_active"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

func FromUser(u *auth.User) UserDTO {
	return UserDTO{
		ID:              u.ID().String(),
		Email:           u.Email().String(),
		IsActive:        u.IsActive(),
		IsEmailVerified: u.IsEmailVerified(),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
		Version:         u.Version(),
	}
}

// SessionDTO не содержит refresh token, он отдаётся только в AuthTokensDTO
type SessionDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
	Version   int       `json:"version"`
}

func FromSession(s *auth.Session) SessionDTO {
	return SessionDTO{
		ID:        s.ID().String(),
		UserID:    s.UserID().String(),
		ExpiresAt: s.ExpiresAt(),
		IsRevoked: s.IsRevoked(),
		CreatedAt: s.CreatedAt(),
		Version:   s.Version(),
	}
}

type AuthTokensDTO struct {
	SessionID    string    `json:"session_id"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
	IsNewUser    bool      `json:"is_new_user,omitempty"`
}

func FromAuth(u *auth.User, s *auth.Session) AuthTokensDTO {
	return AuthTokensDTO{
		SessionID:    s.ID().String(),
		RefreshToken: s.RefreshToken().String(),
		ExpiresAt:    s.ExpiresAt(),
		User:         FromUser(u),
	}
}

type NotificationDTO struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	RelatedEntityID   string     `json:"related_entity_id,omitempty"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	IsRead            bool       `json:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Version           int        `json:"version"`
}

func FromNotification(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:                n.ID().String(),
		UserID:            n.UserID(),
		Type:              n.Type().String(),
		Title:             n.Title().String(),
		Message:           n.Message().String(),
		RelatedEntityID:   n.RelatedEntityID(),
		RelatedEntityType: n.RelatedEntityType(),
		IsRead:            n.IsRead(),
		ReadAt:            n.ReadAt(),
		CreatedAt:         n.CreatedAt(),
		UpdatedAt:         n.UpdatedAt(),
		Version:           n.Version(),
	}
}

func FromNotifications(items []*notification.Notification) []NotificationDTO {
	result := make([]NotificationDTO, len(items))
	for i, n := range items {
		result[i] = FromNotification(n)
	}
	return result
}

// Page - страница списка вместе с общим числом записей
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func NewPage[T any](items []T, total, page, pageSize int) Page[T] {
	return Page[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}
