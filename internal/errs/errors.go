package errs

import (
	"errors"
	"fmt"
)

// Kind - класс ошибки, по нему транспорт выбирает код ответа
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnauthorized Kind = "UNAUTHORIZED"
)

// Rule - какое правило валидации нарушено
type Rule string

const (
	RuleRequired Rule = "required"
	RuleLength   Rule = "length"
	RuleFormat   Rule = "format"
	RuleEnum     Rule = "enum"
	RuleState    Rule = "state"
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Field возвращает имя поля для ошибок валидации значения
func (e *Error) Field() string {
	field, _ := e.Details["field"].(string)
	return field
}

// Rule возвращает нарушенное правило, пусто если это не ошибка валидации
func (e *Error) Rule() Rule {
	rule, _ := e.Details["rule"].(Rule)
	return rule
}

func Validation(field string, rule Rule, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Details: map[string]any{
			"field": field,
			"rule":  rule,
		},
	}
}

// Invariant - нарушение предусловия метода сущности
func Invariant(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Details: map[string]any{
			"rule": RuleState,
		},
	}
}

func NotFound(resource, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Conflict(message string, err error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Details: map[string]any{},
		Err:     err,
	}
}

func Forbidden(message string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Message: message,
		Details: map[string]any{},
	}
}

func Unauthorized(message string) *Error {
	return &Error{
		Kind:    KindUnauthorized,
		Message: message,
		Details: map[string]any{},
	}
}

// KindOf достаёт Kind из цепочки ошибок, пустая строка если это не *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf возвращает текст ошибки без префикса с Kind
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
