// Package errs defines the error taxonomy shared by the data access,
// service, and action layers. Lower layers return only the kinds they are
// responsible for; the action layer is the single point that translates
// every kind into user-facing text.
package errs

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel error kinds raised by the service layer.
var (
	// ErrUnauthorized means no identified caller.
	ErrUnauthorized = errors.New("caller is not signed in")
	// ErrNotFound means the entity is absent, or present but not owned by
	// the caller. The two cases read identically so that existence is not
	// leaked to unauthorized callers.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden means the entity was located but the ownership check
	// explicitly failed. Used only where existence is already known.
	ErrForbidden = errors.New("caller does not own this record")
	// ErrPermissionDenied means a business-rule or plan-limit refusal.
	ErrPermissionDenied = errors.New("plan limit reached")
	// ErrRateLimited means the admission check refused the request.
	ErrRateLimited = errors.New("too many requests")
)

// StorageError wraps a storage-level fault. The DAL raises it for every
// storage failure, including updates that matched no rows. It carries the
// full internal detail for server-side logging and must never be surfaced
// verbatim to a caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError for the given operation.
func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ValidationError reports action-layer input validation failures, keyed by
// offending field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.FieldNames(), ", ")
}

// FieldNames returns the offending field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
