package postgres

import (
	"fmt"
	"strings"
)

// Where собирает условия с нумерованными плейсхолдерами pgx
type Where struct {
	conds []string
	args  []any
}

// Add принимает условие с одним знаком ?, он заменяется на $n
func (w *Where) Add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// Page добавляет LIMIT и OFFSET в конец списка аргументов
func (w *Where) Page(limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
