package cache

import (
	"context"
	"sync"
)

type tagCollectorKey struct{}

// tagCollector accumulates tags declared while a value is being computed.
type tagCollector struct {
	mu   sync.Mutex
	tags []string
}

func (c *tagCollector) add(tags []string) {
	if len(tags) == 0 {
		return
	}
	c.mu.Lock()
	c.tags = append(c.tags, tags...)
	c.mu.Unlock()
}

func (c *tagCollector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dedupeStrings(c.tags)
}

// CollectTags returns a child context carrying a fresh tag collector and a
// function that yields the tags declared so far, deduplicated. It is called
// by TagStore implementations around the compute function; application code
// only calls AddTags.
func CollectTags(ctx context.Context) (context.Context, func() []string) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &tagCollector{}
	return context.WithValue(ctx, tagCollectorKey{}, c), c.snapshot
}

// AddTags declares additional cache tags for the computation in flight.
// Outside a GetOrCompute computation it is a no-op.
func AddTags(ctx context.Context, tags ...string) {
	if ctx == nil {
		return
	}
	if c, ok := ctx.Value(tagCollectorKey{}).(*tagCollector); ok {
		c.add(tags)
	}
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
