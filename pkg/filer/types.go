package filer

import (
	"fmt"
	"time"
)

// NodeKind is the variant tag of a filesystem node.
type NodeKind int

const (
	// KindFile is a plain file with content.
	KindFile NodeKind = iota
	// KindDirectory is a container whose children can be enumerated.
	KindDirectory
)

// String returns a human-readable string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindDirectory:
		return "Directory"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Numeric file type tags, following the RISC OS convention the source
// domain uses for typed files.
const (
	// TypeData is the fallback type for files whose type is unknown.
	TypeData = 0xFFD

	// TypeDirectory is the pseudo-type reported for directories.
	TypeDirectory = 0x1000

	// TypeImage marks the start of the image filing system type range.
	TypeImage = 0x3000

	// TypeUntyped marks files carrying load/exec addresses instead of a type.
	TypeUntyped = -1
)

// SizeUnknown is reported when the backend cannot determine a size.
const SizeUnknown = int64(-1)

// Node is one entry of a directory listing: a tagged File/Directory variant
// with its canonical path and display metadata. Nodes are owned by the
// enumerator that produced them and are read-only to consumers.
type Node struct {
	// Path is the canonical path of the entry.
	Path CanonicalPath

	// Name is the scheme-rendered display name (the leaf).
	Name string

	// Kind tags the variant.
	Kind NodeKind

	// FileType is the numeric type tag (TypeData when nothing better is
	// known, TypeDirectory for directories).
	FileType int

	// Size in bytes for files; SizeUnknown when the backend cannot tell.
	Size int64

	// ModTime is the modification timestamp; the zero value means unknown.
	ModTime time.Time

	// Enumerable reports whether the node's contents may be listed. False
	// for files, and false for directory entries that resolve back into
	// their own ancestry, so that a caller recursing naively over a listing
	// terminates.
	Enumerable bool
}

// IsDir reports whether the node is the Directory variant.
func (n Node) IsDir() bool { return n.Kind == KindDirectory }

// FormatFileType renders the type tag for display: "Directory", "Untyped",
// "Image file (&XXX)" for image types, "&XXX" otherwise.
func (n Node) FormatFileType() string {
	if n.Kind == KindDirectory || n.FileType == TypeDirectory {
		return "Directory"
	}
	if n.FileType == TypeUntyped {
		return "Untyped"
	}
	if n.FileType >= TypeImage {
		return fmt.Sprintf("Image file (&%03X)", n.FileType)
	}
	return fmt.Sprintf("&%03X", n.FileType)
}

// FormatSize renders the size for display, "Unknown" when the backend could
// not determine it.
func (n Node) FormatSize() string {
	if n.Size < 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d bytes", n.Size)
}

// FormatModTime renders the modification timestamp in the source domain's
// "HH:MM:SS.cc DD Mon YYYY" form, with centisecond precision.
func (n Node) FormatModTime() string {
	if n.ModTime.IsZero() {
		return "Unknown"
	}
	t := n.ModTime.UTC()
	return fmt.Sprintf("%s.%02d %s",
		t.Format("15:04:05"),
		t.Nanosecond()/1e7,
		t.Format("02 Jan 2006"))
}

// InfoField is one labelled line of a file-information panel.
type InfoField struct {
	Label string
	Value string
}

// InfoFields returns the ordered fields an info window displays for the
// node: leafname, file type, size and timestamp.
func (n Node) InfoFields() []InfoField {
	return []InfoField{
		{Label: "Leafname", Value: n.Name},
		{Label: "File type", Value: n.FormatFileType()},
		{Label: "Size", Value: n.FormatSize()},
		{Label: "Date/time", Value: n.FormatModTime()},
	}
}

// Listing is an ordered snapshot of one directory's children at one point in
// time. Listings are never mutated after being handed out; observing later
// filesystem changes requires requesting a fresh listing.
type Listing struct {
	// Path is the directory the listing describes.
	Path CanonicalPath

	// Nodes are the children, ordered by display-name collation with ties
	// broken by identity key, so repeated listings of an unchanged
	// directory are identical.
	Nodes []Node

	// Taken records when the snapshot was produced.
	Taken time.Time
}

// Len returns the number of nodes in the listing.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Nodes)
}

// Find locates the node whose path is CompareIdentity-equal to target under
// the given scheme. Returns false when the node is not (or no longer)
// present.
func (l *Listing) Find(scheme PathScheme, target CanonicalPath) (Node, bool) {
	if l == nil {
		return Node{}, false
	}
	for _, n := range l.Nodes {
		if scheme.CompareIdentity(n.Path, target) {
			return n, true
		}
	}
	return Node{}, false
}
