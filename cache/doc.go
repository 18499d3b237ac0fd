// Package cache defines the tagged read-through cache contract the data
// access layer builds on.
//
// # Overview
//
// A TagStore memoizes computation results (query outputs) under a content
// key, and additionally indexes every entry by the set of tags that was
// active when the value was produced. Writes invalidate by tag, not by key:
// a writer names the invalidation scopes it affects and every entry whose
// tag set intersects them is evicted.
//
// # Tags declared during computation
//
// Some tags are only discovered while the value is being computed: a lookup
// keyed by id learns the row's owner after loading it. The compute function
// can append such tags through AddTags; the store records them together with
// the tags declared up front before the entry is committed:
//
//	rec, err := cache.GetOrCompute(ctx, store, key, []string{idTag}, func(ctx context.Context) (Row, error) {
//		row, err := load(ctx, id)
//		if err == nil {
//			cache.AddTags(ctx, ownerTag(row.OwnerID))
//		}
//		return row, err
//	})
//
// # Consistency
//
// Invalidate is atomic with respect to concurrent GetOrCompute calls: a
// reader observes the fully-prior or the fully-invalidated state, never a
// partially-evicted one. No read started after Invalidate returns can
// observe pre-invalidation data, including through the re-commit race (a
// computation that began before the invalidation and would commit after it
// is detected and its value returned uncached).
//
// Entries still carry the configured TTL as a maximum-age backstop for the
// crash window between a storage commit and its invalidation dispatch.
//
// # Implementations
//
// The production implementation lives in internal/cacheinfra and is wired
// through pkg/di. Stores are explicitly constructed and injected; there is
// no process-wide singleton, so tests can instantiate isolated instances.
package cache
