package repository

import "errors"

var (
	ErrNotFound        = errors.New("запись не найдена")
	ErrVersionConflict = errors.New("конфликт версий")
	// ErrDuplicate - нарушено ограничение уникальности (например, почта пользователя)
	ErrDuplicate       = errors.New("запись уже существует")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizeLimit приводит limit к допустимому диапазону
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset переводит страницу (с единицы) в смещение
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// Window вырезает страницу из уже отфильтрованного списка
func Window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + NormalizeLimit(limit)
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
