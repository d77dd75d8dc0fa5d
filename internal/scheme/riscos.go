package scheme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/filer/pkg/filer"
)

// RiscOSName is the scheme tag stamped into paths produced by RiscOS.
const RiscOSName = "riscos"

// RiscOS implements filer.PathScheme for '.'-separated, case-insensitive
// naming rooted at "$". A leading "$." is accepted and normalized away, so
// "A.B" and "$.A.B" denote the same two-level path. The final component may
// carry a ",xxx" suffix giving the file's numeric type in hex, following the
// convention used when typed files cross onto foreign filing systems.
type RiscOS struct{}

var _ filer.PathScheme = RiscOS{}

// Name returns the scheme tag.
func (RiscOS) Name() string { return RiscOSName }

// Parse converts RISC OS style text into a CanonicalPath.
// Empty components, characters illegal on the filing system and malformed
// ",xxx" type suffixes are rejected.
func (RiscOS) Parse(text string) (filer.CanonicalPath, error) {
	if text == "$" || text == "" {
		return filer.NewCanonicalPath(RiscOSName), nil
	}

	raw := strings.Split(strings.TrimPrefix(text, "$."), ".")
	parts := make([]string, 0, len(raw))
	for i, part := range raw {
		if part == "" {
			return filer.CanonicalPath{}, fmt.Errorf("empty component in %q: %w", text, filer.ErrInvalidPath)
		}
		if err := checkRiscOSComponent(part, i == len(raw)-1); err != nil {
			return filer.CanonicalPath{}, fmt.Errorf("%q: %w", text, err)
		}
		parts = append(parts, part)
	}
	return filer.NewCanonicalPath(RiscOSName, parts...), nil
}

// Render converts a CanonicalPath back to RISC OS text, always anchored at
// the "$" root. Parse(Render(p)) is CompareIdentity-equal to p.
func (RiscOS) Render(p filer.CanonicalPath) string {
	if p.IsRoot() {
		return "$"
	}
	return "$." + strings.Join(p.Components(), ".")
}

// Key returns the case-folded identity string for a path.
func (RiscOS) Key(p filer.CanonicalPath) string {
	parts := p.Components()
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return RiscOSName + "\x00" + strings.Join(parts, "\x00")
}

// CompareIdentity reports whether two paths denote the same entity.
// RISC OS naming is case-insensitive.
func (s RiscOS) CompareIdentity(a, b filer.CanonicalPath) bool {
	return s.Key(a) == s.Key(b)
}

// Collate orders display names case-insensitively, with a bytewise tiebreak
// so the ordering stays total.
func (RiscOS) Collate(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// LeafFileType extracts the numeric file type from a ",xxx" leaf suffix.
// Returns false when the leaf carries no type suffix.
func (RiscOS) LeafFileType(leaf string) (int, bool) {
	i := strings.LastIndexByte(leaf, ',')
	if i < 0 {
		return 0, false
	}
	t, err := strconv.ParseUint(leaf[i+1:], 16, 32)
	if err != nil || len(leaf[i+1:]) != 3 {
		return 0, false
	}
	return int(t), true
}

func checkRiscOSComponent(part string, isLeaf bool) error {
	comma := -1
	for i, r := range part {
		switch {
		case r < 0x20 || r == 0x7f:
			return fmt.Errorf("control character in component %q: %w", part, filer.ErrInvalidPath)
		case strings.ContainsRune(`:*#"| `, r):
			return fmt.Errorf("illegal character %q in component %q: %w", r, part, filer.ErrInvalidPath)
		case r == ',':
			if comma >= 0 {
				return fmt.Errorf("multiple type suffixes in %q: %w", part, filer.ErrInvalidPath)
			}
			comma = i
		}
	}
	if comma < 0 {
		return nil
	}
	// A comma is only meaningful as a ",xxx" type suffix on the leaf.
	if !isLeaf {
		return fmt.Errorf("type suffix on non-leaf component %q: %w", part, filer.ErrInvalidPath)
	}
	suffix := part[comma+1:]
	if len(suffix) != 3 {
		return fmt.Errorf("type suffix %q must be three hex digits: %w", suffix, filer.ErrInvalidPath)
	}
	if _, err := strconv.ParseUint(suffix, 16, 32); err != nil {
		return fmt.Errorf("type suffix %q must be three hex digits: %w", suffix, filer.ErrInvalidPath)
	}
	if comma == 0 {
		return fmt.Errorf("empty name before type suffix in %q: %w", part, filer.ErrInvalidPath)
	}
	return nil
}
