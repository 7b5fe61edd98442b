package repository_test

import (
	"suru/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 20, repository.NormalizeLimit(0))
	assert.Equal(t, 20, repository.NormalizeLimit(-5))
	assert.Equal(t, 7, repository.NormalizeLimit(7))
	assert.Equal(t, 100, repository.NormalizeLimit(1000))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, repository.Offset(1, 20))
	assert.Equal(t, 0, repository.Offset(0, 20))
	assert.Equal(t, 40, repository.Offset(3, 20))
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, repository.Window(items, 2, 0))
	assert.Equal(t, []int{5}, repository.Window(items, 2, 4))
	assert.Equal(t, []int{}, repository.Window(items, 2, 5))
	assert.Equal(t, items, repository.Window(items, 0, 0))
}
