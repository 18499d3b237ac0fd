// Package dal is the data access layer: one module per entity kind. Every
// read runs through the tag store so it is cache-checked and tagged with
// its derivation scopes; every write performs the storage mutation and then
// drives the revalidation dispatcher before returning, so a caller's next
// read observes its own write.
//
// The DAL raises errs.StorageError and nothing else; authorization belongs
// to the service layer above.
package dal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/errs"
)

// Deps carries the collaborators every DAL shares.
type Deps struct {
	Cache      cache.TagStore
	Keys       cache.KeySerializer
	Revalidate *datacache.Dispatcher

	// Logger receives full storage fault detail. Faults are logged here and
	// surfaced to callers only as errs.StorageError.
	Logger *slog.Logger

	// NewID generates entity ids. Defaults to uuid.NewString.
	NewID func() string

	// Now supplies timestamps. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Keys == nil {
		d.Keys = cache.NewDefaultKeySerializer()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// fault logs the full internal detail and wraps err for the layers above.
func (d Deps) fault(ctx context.Context, op string, err error) error {
	d.Logger.ErrorContext(ctx, "storage fault", "op", op, "error", err)
	return errs.Storage(op, err)
}

// errNoRows marks a write that targeted a row which does not exist. Per the
// error contract it still surfaces as a StorageError.
var errNoRows = errors.New("no rows affected")

// lookup wraps a point query result so absence can be cached alongside
// presence under the same key.
type lookup[T any] struct {
	Rec T
	OK  bool
}
