package notification

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/vo"
	"time"

	"github.com/google/uuid"
)

const InitialVersion = 1

type Type string

const (
	TypeTaskAssigned    Type = "TASK_ASSIGNED"
	TypeTaskCompleted   Type = "TASK_COMPLETED"
	TypeTaskUpdated     Type = "TASK_UPDATED"
	TypeTaskCommented   Type = "TASK_COMMENTED"
	TypeTeamInvitation  Type = "TEAM_INVITATION"
	TypeTeamRemoved     Type = "TEAM_REMOVED"
	TypeProjectCreated  Type = "PROJECT_CREATED"
	TypeProjectArchived Type = "PROJECT_ARCHIVED"
	TypeSystemAlert     Type = "SYSTEM_ALERT"
)

var types = []Type{
	TypeTaskAssigned, TypeTaskCompleted, TypeTaskUpdated, TypeTaskCommented,
	TypeTeamInvitation, TypeTeamRemoved,
	TypeProjectCreated, TypeProjectArchived,
	TypeSystemAlert,
}

func ParseType(raw string) (Type, error) {
	for _, t := range types {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", errs.Validation("type", errs.RuleEnum, "Invalid notification type: "+raw)
}

func (t Type) String() string { return string(t) }

func (t Type) IsTaskRelated() bool {
	return strings.HasPrefix(string(t), "TASK_")
}

func (t Type) IsTeamRelated() bool {
	return strings.HasPrefix(string(t), "TEAM_")
}

func (t Type) IsProjectRelated() bool {
	return strings.HasPrefix(string(t), "PROJECT_")
}

type Notification struct {
	id                uuid.UUID
	userID            string
	kind              Type
	title             Title
	message           Message
	relatedEntityID   string
	relatedEntityType string
	read              bool
	readAt            *time.Time
	createdAt         time.Time
	updatedAt         time.Time
	version           int
}

type CreateParams struct {
	UserID            string
	Type              string
	Title             string
	Message           string
	RelatedEntityID   string
	RelatedEntityType string
}

type Snapshot struct {
	ID                uuid.UUID
	UserID            string
	Type              Type
	Title             string
	Message           string
	RelatedEntityID   string
	RelatedEntityType string
	IsRead            bool
	ReadAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}

type Filter struct {
	UserID string
	Type   *Type
	IsRead *bool
	Limit  int
	Offset int
}

func (f Filter) Matches(n *Notification) bool {
	if f.UserID != "" && n.userID != f.UserID {
		return false
	}
	if f.Type != nil && n.kind != *f.Type {
		return false
	}
	if f.IsRead != nil && n.read != *f.IsRead {
		return false
	}
	return true
}

func New(p CreateParams) (*Notification, error) {
	userID, err := vo.RequiredRef("User ID", p.UserID)
	if err != nil {
		return nil, err
	}
	kind, err := ParseType(p.Type)
	if err != nil {
		return nil, err
	}
	title, err := NewTitle(p.Title)
	if err != nil {
		return nil, err
	}
	message, err := NewMessage(p.Message)
	if err != nil {
		return nil, err
	}
	relatedID := strings.TrimSpace(p.RelatedEntityID)
	relatedType := strings.TrimSpace(p.RelatedEntityType)
	if (relatedID == "") != (relatedType == "") {
		return nil, errs.Validation("relatedEntity", errs.RuleRequired, "Related entity id and type must be provided together")
	}

	now := time.Now().UTC()
	return &Notification{
		id:                vo.NewID(),
		userID:            userID,
		kind:              kind,
		title:             title,
		message:           message,
		relatedEntityID:   relatedID,
		relatedEntityType: relatedType,
		createdAt:         now,
		updatedAt:         now,
		version:           InitialVersion,
	}, nil
}

func Reconstitute(s Snapshot) *Notification {
	return &Notification{
		id:                s.ID,
		userID:            s.UserID,
		kind:              s.Type,
		title:             Title{value: s.Title},
		message:           Message{value: s.Message},
		relatedEntityID:   s.RelatedEntityID,
		relatedEntityType: s.RelatedEntityType,
		read:              s.IsRead,
		readAt:            copyTime(s.ReadAt),
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		version:           s.Version,
	}
}

func (n *Notification) Snapshot() Snapshot {
	return Snapshot{
		ID:                n.id,
		UserID:            n.userID,
		Type:              n.kind,
		Title:             n.title.String(),
		Message:           n.message.String(),
		RelatedEntityID:   n.relatedEntityID,
		RelatedEntityType: n.relatedEntityType,
		IsRead:            n.read,
		ReadAt:            copyTime(n.readAt),
		CreatedAt:         n.createdAt,
		UpdatedAt:         n.updatedAt,
		Version:           n.version,
	}
}

func (n *Notification) MarkAsRead() error {
	if n.read {
		return errs.Invariant("Notification is already marked as read")
	}
	now := time.Now().UTC()
	n.read = true
	n.readAt = &now
	n.updatedAt = now
	n.version++
	return nil
}

func (n *Notification) MarkAsUnread() error {
	if !n.read {
		return errs.Invariant("Notification is already marked as unread")
	}
	n.read = false
	n.readAt = nil
	n.updatedAt = time.Now().UTC()
	n.version++
	return nil
}

func (n *Notification) ID() uuid.UUID { return n.id }
func (n *Notification) UserID() string { return n.userID }
func (n *Notification) Type() Type { return n.kind }
func (n *Notification) Title() Title { return n.title }
func (n *Notification) Message() Message { return n.message }
func (n *Notification) RelatedEntityID() string { return n.relatedEntityID }
func (n *Notification) RelatedEntityType() string { return n.relatedEntityType }
func (n *Notification) IsRead() bool { return n.read }
func (n *Notification) ReadAt() *time.Time { return copyTime(n.readAt) }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) UpdatedAt() time.Time { return n.updatedAt }
func (n *Notification) Version() int { return n.version }

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
