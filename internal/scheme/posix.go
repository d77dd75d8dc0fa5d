package scheme

import (
	"fmt"
	"strings"

	"github.com/vvka-141/filer/pkg/filer"
)

// PosixName is the scheme tag stamped into paths produced by Posix.
const PosixName = "posix"

// Posix implements filer.PathScheme for '/'-separated, case-sensitive
// naming. A backslash escapes the following character inside a component,
// so separators can appear in leaf names. Repeated separators collapse and
// a leading separator is implied; "a//b" and "/a/b" parse identically.
type Posix struct{}

var _ filer.PathScheme = Posix{}

// Name returns the scheme tag.
func (Posix) Name() string { return PosixName }

// Parse converts POSIX-style text into a CanonicalPath.
// NUL bytes and a trailing unterminated escape are rejected.
func (Posix) Parse(text string) (filer.CanonicalPath, error) {
	var parts []string
	var cur strings.Builder
	escaped := false

	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		if escaped {
			cur.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\x00':
			return filer.CanonicalPath{}, fmt.Errorf("NUL byte in %q: %w", text, filer.ErrInvalidPath)
		case '\\':
			escaped = true
		case '/':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return filer.CanonicalPath{}, fmt.Errorf("unterminated escape in %q: %w", text, filer.ErrInvalidPath)
	}
	flush()

	return filer.NewCanonicalPath(PosixName, parts...), nil
}

// Render converts a CanonicalPath back to POSIX text. Separators and
// backslashes inside components are re-escaped so Render is a left inverse
// of Parse.
func (Posix) Render(p filer.CanonicalPath) string {
	if p.IsRoot() {
		return "/"
	}
	var b strings.Builder
	for _, part := range p.Components() {
		b.WriteByte('/')
		b.WriteString(escapePosix(part))
	}
	return b.String()
}

// Key returns the case-sensitive identity string for a path.
func (Posix) Key(p filer.CanonicalPath) string {
	return PosixName + "\x00" + strings.Join(p.Components(), "\x00")
}

// CompareIdentity reports whether two paths denote the same entity.
// POSIX naming is case-sensitive.
func (s Posix) CompareIdentity(a, b filer.CanonicalPath) bool {
	return s.Key(a) == s.Key(b)
}

// Collate orders display names bytewise, matching case-sensitive identity.
func (Posix) Collate(a, b string) int {
	return strings.Compare(a, b)
}

func escapePosix(component string) string {
	if !strings.ContainsAny(component, `/\`) {
		return component
	}
	var b strings.Builder
	for _, r := range component {
		if r == '/' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
