// Package store is an in-memory document table with newest-first queries,
// the shape the services expect from the hosted document database.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Doc is satisfied by pointers to entities that embed entities.Meta.
type Doc[T any] interface {
	*T
	DocMeta() *entities.Meta
}

// Table keeps documents in insertion order. Values are copied in and out,
// so callers never share a row with the table.
type Table[T any, P Doc[T]] struct {
	mu    sync.RWMutex
	rows  []T
	now   func() time.Time
	newID func() string
}

type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the creation time source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option { return func(o *options) { o.newID = newID } }

func NewTable[T any, P Doc[T]](opts ...Option) *Table[T, P] {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, fn := range opts {
		fn(&o)
	}
	return &Table[T, P]{now: o.now, newID: o.newID}
}

// Insert stamps id and creation time and returns the stored copy.
func (t *Table[T, P]) Insert(v T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(v)
}

// InsertIfEmpty inserts rows only when the table has none, check and inserts under
// one write lock. It returns the stored copies, or false when rows already existed.
func (t *Table[T, P]) InsertIfEmpty(rows ...T) ([]T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.rows) > 0 {
		return nil, false
	}
	out := make([]T, 0, len(rows))
	for _, v := range rows {
		out = append(out, t.insertLocked(v))
	}
	return out, true
}

func (t *Table[T, P]) insertLocked(v T) T {
	meta := P(&v).DocMeta()
	meta.ID = t.newID()
	meta.CreationTime = t.now().UTC()
	t.rows = append(t.rows, v)
	return v
}

func (t *Table[T, P]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.indexOf(id); i >= 0 {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

// Query returns up to limit matching rows, newest first. A nil match selects
// every row; limit <= 0 means no limit.
func (t *Table[T, P]) Query(match func(T) bool, limit int) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for i := len(t.rows) - 1; i >= 0; i-- {
		if match != nil && !match(t.rows[i]) {
			continue
		}
		out = append(out, t.rows[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (t *Table[T, P]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Patch applies fn to the row with the given id under the write lock.
func (t *Table[T, P]) Patch(id string, fn func(*T)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}
	row := t.rows[i]
	fn(&row)
	// l'identita' non si tocca
	*P(&row).DocMeta() = *P(&t.rows[i]).DocMeta()
	t.rows[i] = row
	return row, nil
}

// Upsert patches the row with the given id, creating it first when missing.
// Unlike Insert the id is chosen by the caller.
func (t *Table[T, P]) Upsert(id string, fn func(*T)) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		var v T
		meta := P(&v).DocMeta()
		meta.ID = id
		meta.CreationTime = t.now().UTC()
		t.rows = append(t.rows, v)
		i = len(t.rows) - 1
	}
	row := t.rows[i]
	fn(&row)
	*P(&row).DocMeta() = *P(&t.rows[i]).DocMeta()
	t.rows[i] = row
	return row
}

// Delete removes every matching row and reports how many went away.
func (t *Table[T, P]) Delete(match func(T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if match(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	// azzera la coda per non trattenere riferimenti
	var zero T
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = zero
	}
	t.rows = kept
	return removed
}

func (t *Table[T, P]) indexOf(id string) int {
	for i := range t.rows {
		if P(&t.rows[i]).DocMeta().ID == id {
			return i
		}
	}
	return -1
}
