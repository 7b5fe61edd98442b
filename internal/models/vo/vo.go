// Package vo содержит общие value objects: идентификаторы и ограниченные строки.
package vo

import (
	"fmt"
	"regexp"
	"strings"
	"suru/internal/errs"
	"unicode/utf8"

	"github.com/google/uuid"
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// NewID выдаёт свежий UUID v4
func NewID() uuid.UUID {
	return uuid.New()
}

// ParseID принимает только UUID v4 в каноническом виде с вариантом RFC-4122
func ParseID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, errs.Validation(field, errs.RuleRequired, field+" is required")
	}
	if !uuidPattern.MatchString(raw) {
		return uuid.Nil, errs.Validation(field, errs.RuleFormat, "Invalid UUID format: "+raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Validation(field, errs.RuleFormat, "Invalid UUID format: "+raw)
	}
	return id, nil
}

// ParseOptionalID - пустая строка означает отсутствие значения
func ParseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func IsValidID(raw string) bool {
	return uuidPattern.MatchString(raw)
}

// BoundedText обрезает пробелы и проверяет длину в символах.
// Пустая строка после обрезки - отдельное правило required.
func BoundedText(field, raw string, min, max int) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", errs.Validation(field, errs.RuleRequired, field+" is required")
	}
	if n := utf8.RuneCountInString(value); n < min || n > max {
		return "", errs.Validation(field, errs.RuleLength,
			fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return value, nil
}

// RequiredRef - непустая ссылка на внешний объект (например id пользователя)
func RequiredRef(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", errs.Validation(field, errs.RuleRequired, field+" is required")
	}
	return value, nil
}

// OptionalText возвращает nil для пустой строки
func OptionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	return &value
}
