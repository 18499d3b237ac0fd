package datacache

// Kind identifies one cached entity kind. The set of kinds is closed:
// tag encoding relies on kinds (and scopes) coming from these enumerations
// so that no two distinct (kind, scope, value) triples can produce the
// same tag string.
type Kind string

const (
	KindUser      Kind = "users"
	KindJobInfo   Kind = "job_infos"
	KindInterview Kind = "interviews"
	KindQuestion  Kind = "questions"
)

// Kinds returns every registered entity kind.
func Kinds() []Kind {
	return []Kind{KindUser, KindJobInfo, KindInterview, KindQuestion}
}

// Valid reports whether k is one of the registered kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindJobInfo, KindInterview, KindQuestion:
		return true
	}
	return false
}

// Scope identifies one invalidation scope for a kind.
type Scope string

const (
	// ScopeGlobal covers every cached read of a kind, regardless of owner.
	ScopeGlobal Scope = "global"
	// ScopeOwner covers cached reads of a kind scoped to one owning user.
	ScopeOwner Scope = "owner"
	// ScopeID covers cached reads of one specific entity.
	ScopeID Scope = "id"
	// ScopeParent covers cached reads of every entity of a kind that hangs
	// off one parent entity (e.g. all interviews under one job info). It is
	// addressed by the parent's id because a writer of the parent does not
	// know the children's own ids.
	ScopeParent Scope = "parent"
)

const tagSeparator = ":"

// GlobalTag returns the tag invalidated whenever any entity of the kind
// changes in a way that affects list queries.
func GlobalTag(kind Kind) string {
	return encodeTag(kind, ScopeGlobal, "")
}

// OwnerTag returns the tag invalidated when any entity of the kind owned by
// ownerID changes.
func OwnerTag(kind Kind, ownerID string) string {
	return encodeTag(kind, ScopeOwner, ownerID)
}

// IDTag returns the tag invalidated when the specific entity changes.
func IDTag(kind Kind, id string) string {
	return encodeTag(kind, ScopeID, id)
}

// ParentTag returns the tag invalidated when the parent entity identified by
// parentID changes, covering every cached read of the kind scoped to that
// parent.
func ParentTag(kind Kind, parentID string) string {
	return encodeTag(kind, ScopeParent, parentID)
}

// encodeTag builds "{kind}:{scope}:{value}". With kind and scope drawn from
// the closed enumerations above the encoding is injective: distinct
// (kind, scope) pairs yield distinct fixed prefixes, and within one pair
// appending the value is trivially injective.
func encodeTag(kind Kind, scope Scope, value string) string {
	if value == "" {
		return string(kind) + tagSeparator + string(scope)
	}
	return string(kind) + tagSeparator + string(scope) + tagSeparator + value
}
