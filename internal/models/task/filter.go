package task

import "github.com/google/uuid"

// Filter - параметры выборки для TaskRepository.FindMany
type Filter struct {
	ProjectID    *uuid.UUID
	Status       *Status
	AssigneeID   string
	Tags         []string
	ParentTaskID *uuid.UUID
	Limit        int
	Offset       int
}

// Matches проверяет задачу по всем заданным полям фильтра, пагинация не учитывается
func (f Filter) Matches(t *Task) bool {
	if f.ProjectID != nil && t.projectID != *f.ProjectID {
		return false
	}
	if f.Status != nil && t.status != *f.Status {
		return false
	}
	if f.AssigneeID != "" && t.assigneeID != f.AssigneeID {
		return false
	}
	if f.ParentTaskID != nil && (t.parentTaskID == nil || *t.parentTaskID != *f.ParentTaskID) {
		return false
	}
	return t.HasTags(f.Tags...)
}
