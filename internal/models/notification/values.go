package notification

import (
	"strings"
	"suru/internal/errs"
	"unicode/utf8"
)

const (
	TitleMaxLength   = 200
	MessageMaxLength = 1000
)

type Title struct {
	value string
}

func NewTitle(raw string) (Title, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Title{}, errs.Validation("title", errs.RuleRequired, "Notification title is required")
	}
	if utf8.RuneCountInString(value) > TitleMaxLength {
		return Title{}, errs.Validation("title", errs.RuleLength, "Notification title must be less than 200 characters")
	}
	return Title{value: value}, nil
}

func (t Title) String() string {
	return t.value
}

func (t Title) Equals(other Title) bool {
	return t.value == other.value
}

// Message - текст уведомления, до MessageMaxLength символов
type Message struct {
	value string
}

func NewMessage(raw string) (Message, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Message{}, errs.Validation("message", errs.RuleRequired, "Notification message is required")
	}
	if utf8.RuneCountInString(value) > MessageMaxLength {
		return Message{}, errs.Validation("message", errs.RuleLength, "Notification message must be less than 1000 characters")
	}
	return Message{value: value}, nil
}

func (m Message) String() string {
	return m.value
}

func (m Message) Equals(other Message) bool {
	return m.value == other.value
}
