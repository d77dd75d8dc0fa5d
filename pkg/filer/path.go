package filer

// CanonicalPath is the scheme-neutral form of a file name: an ordered list of
// path components plus the tag of the scheme that produced it. Values are
// immutable; all derivation methods return copies.
//
// Two CanonicalPath values denote the same filesystem entity exactly when the
// owning scheme's CompareIdentity reports them equal. Raw equality on the
// rendered text must never be used where identity matters.
type CanonicalPath struct {
	scheme string
	parts  []string
}

// NewCanonicalPath builds a path from a scheme tag and components.
// Intended for scheme implementations and backends; application code should
// obtain paths from PathScheme.Parse.
func NewCanonicalPath(scheme string, parts ...string) CanonicalPath {
	return CanonicalPath{
		scheme: scheme,
		parts:  append([]string(nil), parts...),
	}
}

// Scheme returns the tag of the scheme that produced this path.
func (p CanonicalPath) Scheme() string { return p.scheme }

// Components returns a copy of the ordered path components.
// The root has no components.
func (p CanonicalPath) Components() []string {
	return append([]string(nil), p.parts...)
}

// Depth returns the number of components. The root has depth 0.
func (p CanonicalPath) Depth() int { return len(p.parts) }

// IsRoot reports whether this is the scheme's root directory.
func (p CanonicalPath) IsRoot() bool { return len(p.parts) == 0 }

// Leaf returns the final component, or "" for the root.
func (p CanonicalPath) Leaf() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[len(p.parts)-1]
}

// Parent returns the containing directory. The parent of the root is the
// root itself, matching the recursion base case used by enumeration.
func (p CanonicalPath) Parent() CanonicalPath {
	if len(p.parts) == 0 {
		return p
	}
	return CanonicalPath{
		scheme: p.scheme,
		parts:  append([]string(nil), p.parts[:len(p.parts)-1]...),
	}
}

// Child returns the path of a direct child with the given leaf name.
func (p CanonicalPath) Child(name string) CanonicalPath {
	parts := make([]string, 0, len(p.parts)+1)
	parts = append(parts, p.parts...)
	parts = append(parts, name)
	return CanonicalPath{scheme: p.scheme, parts: parts}
}

// Truncate returns the ancestor at the given depth. Used together with
// CompareIdentity to detect entries that resolve back into their own
// ancestry. Truncating deeper than the path itself returns the path
// unchanged.
func (p CanonicalPath) Truncate(depth int) CanonicalPath {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(p.parts) {
		return p
	}
	return CanonicalPath{
		scheme: p.scheme,
		parts:  append([]string(nil), p.parts[:depth]...),
	}
}
