package filer

// PathScheme is the strategy object for one file naming convention:
// separator, case rules and escaping. A scheme is selected once per backend
// instance and never swapped at runtime.
//
// Implementations must be stateless value types, safe for concurrent use.
type PathScheme interface {
	// Name returns the scheme tag stamped into every CanonicalPath the
	// scheme produces ("posix", "riscos").
	Name() string

	// Parse converts scheme-specific text into a CanonicalPath. Malformed
	// input (unterminated escapes, characters illegal under the scheme)
	// fails wrapping ErrInvalidPath.
	Parse(text string) (CanonicalPath, error)

	// Render converts a CanonicalPath back to scheme-specific text. For any
	// path produced by Parse of this same scheme, Parse(Render(p)) yields a
	// path CompareIdentity-equal to p.
	Render(p CanonicalPath) string

	// Key returns the normalized identity string for a path. It is the map
	// key used by the window registry; CompareIdentity(a, b) holds exactly
	// when Key(a) == Key(b).
	Key(p CanonicalPath) string

	// CompareIdentity reports whether two paths denote the same entity
	// under the scheme's case and normalization rules.
	CompareIdentity(a, b CanonicalPath) bool

	// Collate orders two display names for listing purposes, returning a
	// negative, zero or positive value like strings.Compare.
	Collate(a, b string) int
}
