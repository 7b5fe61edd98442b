package postgres_test

import (
	"suru/internal/repository/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	var w postgres.Where
	assert.Equal(t, "", w.SQL())

	w.Add("project_id = ?", "p1")
	w.Add("tags @> ?", []string{"a"})
	assert.Equal(t, " WHERE project_id = $1 AND tags @> $2", w.SQL())

	page, args := w.Page(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", page)
	assert.Equal(t, []any{"p1", []string{"a"}, 20, 40}, args)
	assert.Len(t, w.Args(), 2)
}
