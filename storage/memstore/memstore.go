// Package memstore provides an in-memory storage.Table implementation. It
// is the primary test backend and doubles as a storage engine for demos.
//
// Rows are isolated from callers by a msgpack round trip: values going in
// and out are deep copies, so mutating a returned row never reaches the
// store, and field updates are applied on the encoded form by column name
// exactly like a SQL backend would.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// Options configures a Table for one entity type.
type Options[T any] struct {
	// ID extracts the primary key from a row. Required.
	ID func(T) string
	// Match reports whether a row satisfies a filter. A nil Match matches
	// every row.
	Match func(T, storage.Filter) bool
}

// Table is an in-memory storage.Table.
type Table[T any] struct {
	mu   sync.Mutex
	rows map[string][]byte
	// order holds ids newest first, matching LoadWhere's contract.
	order []string
	opts  Options[T]
	// failWith, when set, makes every operation return this error. Used by
	// tests to exercise storage fault paths.
	failWith error
}

var _ storage.Table[struct{}] = (*Table[struct{}])(nil)

// New creates an empty Table.
func New[T any](opts Options[T]) *Table[T] {
	if opts.ID == nil {
		panic("memstore: Options.ID is required")
	}
	return &Table[T]{
		rows: make(map[string][]byte),
		opts: opts,
	}
}

// FailWith makes every subsequent operation return err. Pass nil to restore
// normal behaviour.
func (t *Table[T]) FailWith(err error) {
	t.mu.Lock()
	t.failWith = err
	t.mu.Unlock()
}

// Load implements storage.Table.
func (t *Table[T]) Load(_ context.Context, id string) (T, bool, error) {
	var zero T
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWith != nil {
		return zero, false, t.failWith
	}
	raw, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}
	rec, err := decode[T](raw)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

// LoadWhere implements storage.Table.
func (t *Table[T]) LoadWhere(_ context.Context, f storage.Filter) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWith != nil {
		return nil, t.failWith
	}
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rec, err := decode[T](t.rows[id])
		if err != nil {
			return nil, err
		}
		if t.opts.Match != nil && !t.opts.Match(rec, f) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert implements storage.Table.
func (t *Table[T]) Insert(_ context.Context, rec T) (T, error) {
	var zero T
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWith != nil {
		return zero, t.failWith
	}
	id := t.opts.ID(rec)
	if id == "" {
		return zero, fmt.Errorf("memstore: row has empty id")
	}
	if _, exists := t.rows[id]; exists {
		return zero, fmt.Errorf("memstore: duplicate id %q", id)
	}
	raw, err := msgpack.Marshal(rec)
	if err != nil {
		return zero, err
	}
	t.rows[id] = raw
	t.order = append([]string{id}, t.order...)
	return decode[T](raw)
}

// Update implements storage.Table. Fields are merged into the encoded row
// by column name.
func (t *Table[T]) Update(_ context.Context, id string, fields storage.Fields) (T, bool, error) {
	var zero T
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWith != nil {
		return zero, false, t.failWith
	}
	raw, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}

	var asMap map[string]any
	if err := msgpack.Unmarshal(raw, &asMap); err != nil {
		return zero, false, err
	}
	for col, val := range fields {
		asMap[col] = val
	}
	merged, err := msgpack.Marshal(asMap)
	if err != nil {
		return zero, false, err
	}
	rec, err := decode[T](merged)
	if err != nil {
		return zero, false, err
	}
	// Re-encode from the typed row so the stored form stays canonical.
	canonical, err := msgpack.Marshal(rec)
	if err != nil {
		return zero, false, err
	}
	t.rows[id] = canonical
	return rec, true, nil
}

// Delete implements storage.Table.
func (t *Table[T]) Delete(_ context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWith != nil {
		return false, t.failWith
	}
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Len returns the number of stored rows.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func decode[T any](raw []byte) (T, error) {
	var rec T
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}
