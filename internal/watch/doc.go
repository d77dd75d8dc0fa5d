// Package watch turns native filesystem events into canonical-directory
// change notifications. It watches an anchor directory recursively and,
// once events settle, reports each affected directory so callers can
// invalidate cached listings and refresh open windows.
package watch
