// Package inmemory - общее хранилище снапшотов с проверкой версии,
// на нём построены in-memory репозитории всех агрегатов.
package inmemory

import (
	"sync"
	repo "suru/internal/repository"

	"github.com/google/uuid"
)

type Store[S any] struct {
	records map[uuid.UUID]S
	ids     []uuid.UUID
	mtx     *sync.RWMutex
	version func(S) int
	initial int
}

func NewStore[S any](initialVersion int, version func(S) int) *Store[S] {
	return &Store[S]{
		records: make(map[uuid.UUID]S),
		ids:     []uuid.UUID{},
		mtx:     &sync.RWMutex{},
		version: version,
		initial: initialVersion,
	}
}

// Save - compare-and-swap под одной блокировкой.
// Новая запись принимается только с начальной версией,
// существующая заменяется только если хранимая версия = version-1.
func (s *Store[S]) Save(id uuid.UUID, snapshot S) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	next := s.version(snapshot)
	current, ok := s.records[id]
	if !ok {
		if next != s.initial {
			return repo.ErrNotFound
		}
		s.records[id] = snapshot
		s.ids = append(s.ids, id)
		return nil
	}

	if s.version(current) != next-1 {
		return repo.ErrVersionConflict
	}
	s.records[id] = snapshot
	return nil
}

func (s *Store[S]) Get(id uuid.UUID) (S, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	snapshot, ok := s.records[id]
	return snapshot, ok
}

func (s *Store[S]) Exists(id uuid.UUID) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.records[id]
	return ok
}

func (s *Store[S]) Delete(id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.records[id]; !ok {
		return repo.ErrNotFound
	}
	s.remove(id)
	return nil
}

// DeleteWhere удаляет не больше limit записей (limit <= 0 - без ограничения)
func (s *Store[S]) DeleteWhere(match func(S) bool, limit int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var victims []uuid.UUID
	for _, id := range s.ids {
		if match(s.records[id]) {
			victims = append(victims, id)
			if limit > 0 && len(victims) == limit {
				break
			}
		}
	}
	for _, id := range victims {
		s.remove(id)
	}
	return len(victims)
}

// Find возвращает подходящие записи в порядке вставки
func (s *Store[S]) Find(match func(S) bool) []S {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []S{}
	for _, id := range s.ids {
		snapshot := s.records[id]
		if match == nil || match(snapshot) {
			res = append(res, snapshot)
		}
	}
	return res
}

// FindPage - Find + общее количество + окно limit/offset
func (s *Store[S]) FindPage(match func(S) bool, limit, offset int) ([]S, int) {
	all := s.Find(match)
	return repo.Window(all, limit, offset), len(all)
}

func (s *Store[S]) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.ids)
}

func (s *Store[S]) remove(id uuid.UUID) {
	delete(s.records, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}
