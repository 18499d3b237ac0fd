// Package cacheinfra implements cache.TagStore on top of a sturdyc client.
//
// Values live in the sturdyc cache; a tag index on the side maps every tag
// to the keys committed under it plus an invalidation watermark. The
// watermark closes the re-commit race: a computation that started before an
// overlapping invalidation and finishes after it must not put its (possibly
// pre-write) value back into the cache.
package cacheinfra

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
)

// Store is a tagged read-through cache store.
type Store struct {
	client *sturdyc.Client[any]
	index  *xsync.MapOf[string, *tagEntry]

	// seq is a monotonic invalidation sequence. Each Invalidate call takes
	// the next value and stamps it on every touched tag.
	seq atomic.Uint64

	// commitMu orders commits against invalidation. Committers hold the read
	// side, so reads on disjoint tags proceed concurrently; Invalidate holds
	// the write side while it stamps watermarks and evicts keys, so a reader
	// observes the fully-prior or fully-invalidated state, never a partial
	// one.
	commitMu sync.RWMutex
}

// tagEntry tracks the keys committed under one tag and the sequence number
// of the last invalidation that touched the tag.
type tagEntry struct {
	mu        sync.Mutex
	keys      map[string]struct{}
	lastInval uint64
}

var _ cache.TagStore = (*Store)(nil)

// New builds a Store from the given configuration.
func New(cfg cache.Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		opts...,
	)

	return &Store{
		client: client,
		index:  xsync.NewMapOf[string, *tagEntry](),
	}, nil
}

// GetOrCompute implements cache.TagStore.
func (s *Store) GetOrCompute(ctx context.Context, key string, tags []string, compute func(ctx context.Context) (any, error)) (any, error) {
	if value, ok := s.client.Get(key); ok {
		return value, nil
	}

	// Snapshot the sequence before computing: an invalidation that lands
	// while compute runs will advance it past this point.
	started := s.seq.Load()

	cctx, collected := cache.CollectTags(ctx)
	value, err := compute(cctx)
	if err != nil {
		return nil, err
	}

	all := mergeTags(tags, collected())
	s.commit(key, value, all, started)
	return value, nil
}

// commit stores the computed value unless any of its tags was invalidated
// after the computation started, in which case the value is served to the
// caller but not cached.
func (s *Store) commit(key string, value any, tags []string, started uint64) {
	s.commitMu.RLock()
	defer s.commitMu.RUnlock()

	entries := make([]*tagEntry, 0, len(tags))
	for _, tag := range tags {
		entry := s.entryFor(tag)
		entry.mu.Lock()
		stale := entry.lastInval > started
		entry.mu.Unlock()
		if stale {
			return
		}
		entries = append(entries, entry)
	}

	s.client.Set(key, value)
	for _, entry := range entries {
		entry.mu.Lock()
		entry.keys[key] = struct{}{}
		entry.mu.Unlock()
	}
}

// Invalidate implements cache.TagStore.
func (s *Store) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	seq := s.seq.Add(1)
	for _, tag := range tags {
		entry := s.entryFor(tag)
		entry.mu.Lock()
		entry.lastInval = seq
		for key := range entry.keys {
			s.client.Delete(key)
		}
		entry.keys = make(map[string]struct{})
		entry.mu.Unlock()
	}
	return nil
}

// Size returns the number of cached values. Intended for tests and metrics.
func (s *Store) Size() int {
	return s.client.Size()
}

// entryFor returns the index entry for tag, creating it if needed. Entries
// are created even on invalidation of a never-seen tag so that in-flight
// computations carrying that tag observe the watermark.
func (s *Store) entryFor(tag string) *tagEntry {
	entry, _ := s.index.LoadOrCompute(tag, func() *tagEntry {
		return &tagEntry{keys: make(map[string]struct{})}
	})
	return entry
}

func mergeTags(declared, collected []string) []string {
	seen := make(map[string]struct{}, len(declared)+len(collected))
	out := make([]string, 0, len(declared)+len(collected))
	for _, group := range [][]string{declared, collected} {
		for _, tag := range group {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
