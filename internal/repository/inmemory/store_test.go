package inmemory_test

import (
	"errors"
	repo "suru/internal/repository"
	"suru/internal/repository/inmemory"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type record struct {
	Name    string
	Version int
}

func newStore() *inmemory.Store[record] {
	return inmemory.NewStore(1, func(r record) int { return r.Version })
}

func TestStore_InsertThenCAS(t *testing.T) {
	s := newStore()
	id := uuid.New()

	require.NoError(t, s.Save(id, record{Name: "a", Version: 1}))
	require.NoError(t, s.Save(id, record{Name: "b", Version: 2}))

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "b", got.Name)

	// устаревшая версия
	err := s.Save(id, record{Name: "stale", Version: 2})
	assert.ErrorIs(t, err, repo.ErrVersionConflict)

	// перепрыгнуть через версию тоже нельзя
	err = s.Save(id, record{Name: "skip", Version: 4})
	assert.ErrorIs(t, err, repo.ErrVersionConflict)

	// повторная вставка с начальной версией
	err = s.Save(id, record{Name: "dup", Version: 1})
	assert.ErrorIs(t, err, repo.ErrVersionConflict)

	got, _ = s.Get(id)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, 2, got.Version)
}

func TestStore_UpdateMissing(t *testing.T) {
	s := newStore()

	err := s.Save(uuid.New(), record{Name: "ghost", Version: 3})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentSaveSingleWinner(t *testing.T) {
	s := newStore()
	id := uuid.New()
	require.NoError(t, s.Save(id, record{Name: "base", Version: 1}))

	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			err := s.Save(id, record{Name: "next", Version: 2})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, repo.ErrVersionConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(31), conflicts.Load())
}

func TestStore_FindPageAndDelete(t *testing.T) {
	s := newStore()
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, s.Save(ids[i], record{Name: string(rune('a' + i)), Version: 1}))
	}

	page, total := s.FindPage(nil, 2, 2)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Name)
	assert.Equal(t, "d", page[1].Name)

	require.NoError(t, s.Delete(ids[2]))
	assert.False(t, s.Exists(ids[2]))
	assert.ErrorIs(t, s.Delete(ids[2]), repo.ErrNotFound)

	removed := s.DeleteWhere(func(r record) bool { return r.Name != "a" }, 2)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, s.Len())

	rest := s.Find(nil)
	assert.Equal(t, "a", rest[0].Name)
	assert.Equal(t, "e", rest[1].Name)
}
