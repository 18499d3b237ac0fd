package datacache

import "context"

// dependents maps an entity kind to the kinds whose cached reads embed it
// transitively. A write to the key kind must also invalidate the dependent
// kinds' global, parent-scoped, and owner-scoped tags. The table is kept
// exhaustive and acyclic; it is the single place the cascade is encoded.
var dependents = map[Kind][]Kind{
	KindJobInfo: {KindInterview, KindQuestion},
}

// Dependents returns the kinds whose caches depend on writes to kind.
func Dependents(kind Kind) []Kind {
	return append([]Kind(nil), dependents[kind]...)
}

// Invalidator is the slice of the cache store the dispatcher needs.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...string) error
}

// WriteEvent describes one committed write for invalidation purposes.
type WriteEvent struct {
	Kind Kind
	// ID is the written entity's id.
	ID string
	// OwnerID is the owning user's id. For entities owned through a parent
	// (interviews, questions) it is the parent chain's ultimate owner and is
	// used purely for invalidation scope; it may be empty when the writer
	// does not know it.
	OwnerID string
	// ParentID is the id of the parent entity the write is scoped to
	// (e.g. the job info an interview belongs to). Empty for root kinds.
	ParentID string
}

// Dispatcher computes the closure of tags a write must invalidate and
// applies it to the cache store in a single call, so readers of the same
// tags observe either the fully-prior or the fully-invalidated state.
type Dispatcher struct {
	store Invalidator
}

// NewDispatcher creates a Dispatcher backed by the given store.
func NewDispatcher(store Invalidator) *Dispatcher {
	return &Dispatcher{store: store}
}

// Dispatch invalidates every tag in the closure of the write event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev WriteEvent) error {
	return d.store.Invalidate(ctx, TagsFor(ev)...)
}

// TagsFor returns the full invalidation closure for a write event: the
// written kind's own id/global (and owner, when known) tags, the parent
// relationship tag when the write is scoped to a parent, and for each
// dependent kind its global, parent-scoped, and owner-scoped tags.
//
// The owner-scoped dependent tags are deliberate: leaving them out would let
// an owner-scoped interview or question cache survive a job info rename.
func TagsFor(ev WriteEvent) []string {
	tags := []string{
		IDTag(ev.Kind, ev.ID),
		GlobalTag(ev.Kind),
	}
	if ev.OwnerID != "" {
		tags = append(tags, OwnerTag(ev.Kind, ev.OwnerID))
	}
	if ev.ParentID != "" {
		tags = append(tags, ParentTag(ev.Kind, ev.ParentID))
	}
	for _, dep := range dependents[ev.Kind] {
		tags = append(tags, GlobalTag(dep), ParentTag(dep, ev.ID))
		if ev.OwnerID != "" {
			tags = append(tags, OwnerTag(dep, ev.OwnerID))
		}
	}
	return tags
}
