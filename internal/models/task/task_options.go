package task

import "time"

// Update - набор изменений для UpdateDetails, nil означает "не трогать"
type Update struct {
	Title        *string
	Description  *string
	Priority     *string
	Status       *string
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
}

func (u *Update) empty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil && u.Status == nil &&
		u.DueDate == nil && !u.ClearDueDate && u.Tags == nil
}

type UpdateOption func(*Update)

func WithTitle(title string) UpdateOption {
	return func(u *Update) {
		u.Title = &title
	}
}

// WithDescription с пустой строкой очищает описание
func WithDescription(description string) UpdateOption {
	return func(u *Update) {
		u.Description = &description
	}
}

func WithPriority(priority string) UpdateOption {
	if priority == "" {
		return nil
	}
	return func(u *Update) {
		u.Priority = &priority
	}
}

func WithStatus(status string) UpdateOption {
	if status == "" {
		return nil
	}
	return func(u *Update) {
		u.Status = &status
	}
}

func WithDueDate(dueDate time.Time) UpdateOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(u *Update) {
		u.DueDate = &dueDate
	}
}

func WithoutDueDate() UpdateOption {
	return func(u *Update) {
		u.ClearDueDate = true
	}
}

func WithTags(tags []string) UpdateOption {
	return func(u *Update) {
		u.Tags = &tags
	}
}
