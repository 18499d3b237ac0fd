// Package storage defines the capability the data access layer requires
// from a backing store: point lookups, filtered scans, inserts, and
// field-level updates, keyed by entity id and optionally by owner or parent
// id. Any engine offering these four primitives satisfies the dependency;
// the core never sees SQL or engine internals.
package storage

import "context"

// Filter narrows a scan. Zero-value fields are ignored. Which column each
// field maps to is the table implementation's business.
type Filter struct {
	// OwnerID restricts the scan to rows owned by this user.
	OwnerID string
	// ParentID restricts the scan to rows under this parent entity.
	ParentID string
}

// Fields is a partial update keyed by column name.
type Fields map[string]any

// Table is one entity kind's slice of the backing store.
//
// Load and Update report absence through their bool return rather than an
// error; an error always means an engine-level fault.
type Table[T any] interface {
	// Load returns the row with the given id, or false if no such row.
	Load(ctx context.Context, id string) (T, bool, error)

	// LoadWhere returns every row matching the filter, newest first.
	LoadWhere(ctx context.Context, f Filter) ([]T, error)

	// Insert stores a new row and returns it as stored.
	Insert(ctx context.Context, rec T) (T, error)

	// Update applies the fields to the row with the given id and returns the
	// updated row, or false if no row matched.
	Update(ctx context.Context, id string, fields Fields) (T, bool, error)

	// Delete removes the row with the given id, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
