// Package memory provides in-process repositories used when no database is
// configured and in tests. Stored values are copied on the way in and out,
// so callers never share state with the store.
package memory

import (
	"fmt"
	"sync"
)

type table[T any] struct {
	mu       sync.RWMutex
	rows     map[string]T
	clone    func(T) T
	notFound error
}

func newTable[T any](clone func(T) T, notFound error) *table[T] {
	return &table[T]{
		rows:     make(map[string]T),
		clone:    clone,
		notFound: notFound,
	}
}

func (t *table[T]) insert(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("duplicate key %q", id)
	}
	t.rows[id] = t.clone(v)
	return nil
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, t.notFound
	}
	return t.clone(v), nil
}

func (t *table[T]) replace(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound
	}
	t.rows[id] = t.clone(v)
	return nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound
	}
	delete(t.rows, id)
	return nil
}

// filter returns copies of every row keep accepts, in no particular order.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return rows[:0]
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
