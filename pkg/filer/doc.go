// Package filer defines the public contract of the filer core: the canonical
// path model, the path-scheme strategy interface, the node and listing types
// produced by directory enumeration, the backend capability set, sentinel
// errors, and the pluggable Logger interface.
//
// The package contains no behaviour that touches a real filesystem. Concrete
// schemes live in internal/scheme, enumeration in internal/enumerate, window
// tracking in internal/registry, gesture handling in internal/nav, and
// backends in internal/backend.
package filer
