package filer

import "errors"

// Sentinel errors for the failure taxonomy of the core.
// Callers distinguish them with errors.Is().
//
// None of these are fatal to the process: every failure is scoped to the
// single gesture or listing request that triggered it, and the window
// registry and other open sessions remain valid.
var (
	// ErrInvalidPath indicates text that is malformed under the active
	// scheme. Rejected at parse time; an invalid path never reaches the
	// registry.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotFound indicates a path that does not (or no longer) resolves.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory indicates enumeration attempted on a file.
	// A programming error in the caller; surfaced, never retried.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotAFile indicates a content-open attempted on a directory.
	ErrNotAFile = errors.New("not a file")

	// ErrAccessDenied indicates the backend refused an operation.
	// Surfaced verbatim, no retry, no escalation.
	ErrAccessDenied = errors.New("access denied")

	// ErrSessionClosed indicates an operation on a window session that has
	// already been closed.
	ErrSessionClosed = errors.New("session closed")
)
