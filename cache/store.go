package cache

import (
	"context"
	"fmt"
)

// ComputeFn is the function signature TagStore expects when computing a
// value from the source of truth on a cache miss.
type ComputeFn[T any] func(ctx context.Context) (T, error)

// TagStore exposes the tagged read-through caching operations the data
// access layer needs. Implementations must be safe for concurrent use.
type TagStore interface {
	// GetOrCompute returns the cached value for key if present; otherwise it
	// runs compute, records the result tagged with tags plus any tags the
	// computation declared through AddTags, and returns it. A compute error
	// is returned as-is and nothing is cached.
	GetOrCompute(ctx context.Context, key string, tags []string, compute func(ctx context.Context) (any, error)) (any, error)

	// Invalidate removes every cache entry whose tag set intersects tags.
	// It is idempotent.
	Invalidate(ctx context.Context, tags ...string) error
}

// GetOrCompute is the type-safe wrapper around TagStore.GetOrCompute.
func GetOrCompute[T any](ctx context.Context, store TagStore, key string, tags []string, compute ComputeFn[T]) (T, error) {
	result, err := store.GetOrCompute(ctx, key, tags, func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: entry for %q holds %T, want %T", key, result, zero)
	}
	return typed, nil
}
