package task

import (
	"suru/internal/errs"
	"suru/internal/models/vo"
)

const (
	TitleMinLength = 1
	TitleMaxLength = 200
)

type Title struct {
	value string
}

func NewTitle(raw string) (Title, error) {
	value, err := vo.BoundedText("Task title", raw, TitleMinLength, TitleMaxLength)
	if err != nil {
		return Title{}, err
	}
	return Title{value: value}, nil
}

func (t Title) String() string {
	return t.value
}

func (t Title) Equals(other Title) bool {
	return t.value == other.value
}

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

var statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func ParseStatus(raw string) (Status, error) {
	for _, s := range statuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", errs.Validation("status", errs.RuleEnum, "Invalid task status: "+raw)
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsDone() bool {
	return s == StatusDone
}

// CanTransitionTo - граф переходов открыт полностью, в том числе DONE -> TODO
func (s Status) CanTransitionTo(next Status) bool {
	return true
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func ParsePriority(raw string) (Priority, error) {
	for _, p := range priorities {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", errs.Validation("priority", errs.RuleEnum, "Invalid priority: "+raw)
}

func (p Priority) String() string {
	return string(p)
}
