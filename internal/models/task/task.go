package task

import (
	"slices"
	"suru/internal/errs"
	"suru/internal/models/vo"
	"time"

	"github.com/google/uuid"
)

// у задачи версия стартует с нуля, у остальных агрегатов с единицы
const InitialVersion = 0

type Task struct {
	id           uuid.UUID
	projectID    uuid.UUID
	title        Title
	description  string
	status       Status
	priority     Priority
	dueDate      *time.Time
	tags         []string
	assigneeID   string
	parentTaskID *uuid.UUID
	subtasks     []uuid.UUID
	createdBy    string
	createdAt    time.Time
	updatedAt    time.Time
	version      int
}

type CreateParams struct {
	ProjectID    string
	Title        string
	Description  string
	Priority     string
	DueDate      *time.Time
	Tags         []string
	AssigneeID   string
	ParentTaskID string
	CreatedBy    string
}

// Snapshot - плоское состояние задачи для хранилищ
type Snapshot struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	Title        string
	Description  string
	Status       Status
	Priority     Priority
	DueDate      *time.Time
	Tags         []string
	AssigneeID   string
	ParentTaskID *uuid.UUID
	Subtasks     []uuid.UUID
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int
}

func New(p CreateParams) (*Task, error) {
	title, err := NewTitle(p.Title)
	if err != nil {
		return nil, err
	}
	projectID, err := vo.ParseID("Project ID", p.ProjectID)
	if err != nil {
		return nil, err
	}
	createdBy, err := vo.RequiredRef("Created by", p.CreatedBy)
	if err != nil {
		return nil, err
	}
	priority := PriorityMedium
	if p.Priority != "" {
		if priority, err = ParsePriority(p.Priority); err != nil {
			return nil, err
		}
	}
	parentID, err := vo.ParseOptionalID("Parent task ID", p.ParentTaskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Task{
		id:           vo.NewID(),
		projectID:    projectID,
		title:        title,
		description:  deref(vo.OptionalText(&p.Description)),
		status:       StatusTodo,
		priority:     priority,
		dueDate:      copyTime(p.DueDate),
		tags:         cloneTags(p.Tags),
		assigneeID:   deref(vo.OptionalText(&p.AssigneeID)),
		parentTaskID: parentID,
		subtasks:     []uuid.UUID{},
		createdBy:    createdBy,
		createdAt:    now,
		updatedAt:    now,
		version:      InitialVersion,
	}, nil
}

// Reconstitute восстанавливает задачу из хранилища без проверок
func Reconstitute(s Snapshot) *Task {
	return &Task{
		id:           s.ID,
		projectID:    s.ProjectID,
		title:        Title{value: s.Title},
		description:  s.Description,
		status:       s.Status,
		priority:     s.Priority,
		dueDate:      copyTime(s.DueDate),
		tags:         cloneTags(s.Tags),
		assigneeID:   s.AssigneeID,
		parentTaskID: copyID(s.ParentTaskID),
		subtasks:     append([]uuid.UUID{}, s.Subtasks...),
		createdBy:    s.CreatedBy,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		version:      s.Version,
	}
}

func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:           t.id,
		ProjectID:    t.projectID,
		Title:        t.title.String(),
		Description:  t.description,
		Status:       t.status,
		Priority:     t.priority,
		DueDate:      copyTime(t.dueDate),
		Tags:         t.Tags(),
		AssigneeID:   t.assigneeID,
		ParentTaskID: copyID(t.parentTaskID),
		Subtasks:     t.Subtasks(),
		CreatedBy:    t.createdBy,
		CreatedAt:    t.createdAt,
		UpdatedAt:    t.updatedAt,
		Version:      t.version,
	}
}

// UpdateDetails применяет все изменения одной мутацией.
// Сначала валидируется всё, потом меняется состояние.
func (t *Task) UpdateDetails(opts ...UpdateOption) error {
	u := &Update{}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	if u.empty() {
		return errs.Invariant("No changes provided")
	}

	title := t.title
	if u.Title != nil {
		parsed, err := NewTitle(*u.Title)
		if err != nil {
			return err
		}
		title = parsed
	}
	priority := t.priority
	if u.Priority != nil {
		parsed, err := ParsePriority(*u.Priority)
		if err != nil {
			return err
		}
		priority = parsed
	}
	status := t.status
	if u.Status != nil {
		parsed, err := ParseStatus(*u.Status)
		if err != nil {
			return err
		}
		if !t.status.CanTransitionTo(parsed) {
			return errs.Invariant("Cannot transition from " + t.status.String() + " to " + parsed.String())
		}
		status = parsed
	}

	t.title = title
	t.priority = priority
	t.status = status
	if u.Description != nil {
		t.description = deref(vo.OptionalText(u.Description))
	}
	if u.ClearDueDate {
		t.dueDate = nil
	} else if u.DueDate != nil {
		t.dueDate = copyTime(u.DueDate)
	}
	if u.Tags != nil {
		t.tags = cloneTags(*u.Tags)
	}
	t.touch()
	return nil
}

func (t *Task) ChangeStatus(raw string) error {
	next, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	if !t.status.CanTransitionTo(next) {
		return errs.Invariant("Cannot transition from " + t.status.String() + " to " + next.String())
	}
	t.status = next
	t.touch()
	return nil
}

// AssignTo с пустой строкой снимает исполнителя
func (t *Task) AssignTo(assigneeID string) {
	t.assigneeID = deref(vo.OptionalText(&assigneeID))
	t.touch()
}

// EnsureCanHoldSubtasks проверяет глубину иерархии, состояние не меняет
func (t *Task) EnsureCanHoldSubtasks() error {
	if t.parentTaskID != nil {
		return errs.Invariant("Cannot add subtask to a subtask (max 1 level)")
	}
	return nil
}

func (t *Task) AddSubtask(sub *Task) error {
	if err := t.EnsureCanHoldSubtasks(); err != nil {
		return err
	}
	if sub.parentTaskID == nil || *sub.parentTaskID != t.id {
		return errs.Invariant("Subtask parent mismatch")
	}
	t.subtasks = append(t.subtasks, sub.id)
	t.touch()
	return nil
}

// RemoveSubtask отвязывает подзадачу; false, если её не было в списке
func (t *Task) RemoveSubtask(id uuid.UUID) bool {
	i := slices.Index(t.subtasks, id)
	if i < 0 {
		return false
	}
	t.subtasks = append(slices.Clone(t.subtasks[:i]), t.subtasks[i+1:]...)
	t.touch()
	return true
}

func (t *Task) touch() {
	t.updatedAt = time.Now().UTC()
	t.version++
}

func (t *Task) ID() uuid.UUID { return t.id }
func (t *Task) ProjectID() uuid.UUID { return t.projectID }
func (t *Task) Title() Title { return t.title }
func (t *Task) Description() string { return t.description }
func (t *Task) Status() Status { return t.status }
func (t *Task) Priority() Priority { return t.priority }
func (t *Task) DueDate() *time.Time { return copyTime(t.dueDate) }
func (t *Task) AssigneeID() string { return t.assigneeID }
func (t *Task) IsAssigned() bool { return t.assigneeID != "" }
func (t *Task) CreatedBy() string { return t.createdBy }
func (t *Task) CreatedAt() time.Time { return t.createdAt }
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }
func (t *Task) Version() int { return t.version }
func (t *Task) IsSubtask() bool { return t.parentTaskID != nil }
func (t *Task) ParentTaskID() *uuid.UUID { return copyID(t.parentTaskID) }

// Tags и Subtasks отдают копии
func (t *Task) Tags() []string {
	return cloneTags(t.tags)
}

func (t *Task) Subtasks() []uuid.UUID {
	return append([]uuid.UUID{}, t.subtasks...)
}

func (t *Task) HasTags(tags ...string) bool {
	for _, tag := range tags {
		if !slices.Contains(t.tags, tag) {
			return false
		}
	}
	return true
}

// IsOverdue - срок прошёл, а задача не закрыта
func (t *Task) IsOverdue(now time.Time) bool {
	return t.dueDate != nil && !t.status.IsDone() && t.dueDate.Before(now)
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return append([]string{}, tags...)
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyID(v *uuid.UUID) *uuid.UUID {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
