package filer

import (
	"context"
	"io"
	"time"
)

// Entry is the raw child record a backend reports during enumeration,
// before the enumerator turns it into a Node.
type Entry struct {
	// Name is the child's leaf name in scheme-specific text.
	Name string

	// Kind tags what the entry resolves to.
	Kind NodeKind

	// Size in bytes for files; SizeUnknown when the backend cannot tell.
	Size int64

	// ModTime is the modification timestamp; the zero value means unknown.
	ModTime time.Time

	// Target is the scheme text of the path a symbolic entry resolves to,
	// or "" for a plain entry. The enumerator uses it to mark entries that
	// point back into their own ancestry as non-enumerable.
	Target string
}

// Backend is the abstract filesystem capability set the core consumes.
// Implementations may block on I/O; every method takes a context and the
// core treats enumeration calls as suspend points.
//
// Errors are reported by wrapping the package sentinels: ErrNotFound for
// paths that do not resolve, ErrNotADirectory for enumeration of a file,
// ErrAccessDenied for refusals.
type Backend interface {
	// Resolve reports what the path currently denotes.
	Resolve(ctx context.Context, path CanonicalPath) (NodeKind, error)

	// EnumerateChildren lists the direct children of a directory.
	EnumerateChildren(ctx context.Context, path CanonicalPath) ([]Entry, error)

	// OpenForRead yields a content read handle for a file.
	OpenForRead(ctx context.Context, path CanonicalPath) (io.ReadCloser, error)

	// OpenForWrite yields a content write handle for a file.
	OpenForWrite(ctx context.Context, path CanonicalPath) (io.WriteCloser, error)
}
