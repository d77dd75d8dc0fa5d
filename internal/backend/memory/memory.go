// Package memory implements the filer backend capability set in memory.
//
// The backend is the fixture substrate for the test suite and a reference
// implementation of the capability contract: entries are kept in a map keyed
// by the scheme's identity key, so lookups obey the same case rules as the
// window registry.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vvka-141/filer/pkg/filer"
)

type entry struct {
	path    filer.CanonicalPath
	kind    filer.NodeKind
	size    int64
	modTime time.Time
	target  string // scheme text a symbolic entry points at, "" for plain
	content []byte
	denied  bool
}

// Backend is an in-memory filer.Backend.
// Safe for concurrent use by multiple goroutines.
type Backend struct {
	scheme filer.PathScheme

	mu      sync.Mutex
	entries map[string]*entry
}

var _ filer.Backend = (*Backend)(nil)

// New creates an empty in-memory backend containing only the root
// directory. Panics if scheme is nil.
func New(scheme filer.PathScheme) *Backend {
	if scheme == nil {
		panic("scheme cannot be nil")
	}
	b := &Backend{
		scheme:  scheme,
		entries: make(map[string]*entry),
	}
	root := filer.NewCanonicalPath(scheme.Name())
	b.entries[scheme.Key(root)] = &entry{
		path:    root,
		kind:    filer.KindDirectory,
		size:    filer.SizeUnknown,
		modTime: time.Now(),
	}
	return b
}

// AddDir creates a directory (and its missing ancestors) at the given
// scheme text. Panics on unparsable text; fixtures are programmer input.
func (b *Backend) AddDir(text string) {
	p := b.mustParse(text)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureDir(p)
}

// AddFile creates a file with content, creating missing ancestors.
func (b *Backend) AddFile(text, content string) {
	b.AddFileWithTime(text, content, time.Now())
}

// AddFileWithTime creates a file with content and a specific modification
// time, creating missing ancestors.
func (b *Backend) AddFileWithTime(text, content string, modTime time.Time) {
	p := b.mustParse(text)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureDir(p.Parent())
	b.entries[b.scheme.Key(p)] = &entry{
		path:    p,
		kind:    filer.KindFile,
		size:    int64(len(content)),
		modTime: modTime,
		content: []byte(content),
	}
}

// AddLink creates a symbolic entry pointing at target (scheme text).
// The entry reports the kind of its target at resolve time.
func (b *Backend) AddLink(text, target string) {
	p := b.mustParse(text)
	// Validate the target spelling up front; dangling targets are allowed.
	b.mustParse(target)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureDir(p.Parent())
	b.entries[b.scheme.Key(p)] = &entry{
		path:    p,
		kind:    filer.KindDirectory,
		size:    filer.SizeUnknown,
		modTime: time.Now(),
		target:  target,
	}
}

// Remove deletes the entry at the given scheme text and everything below
// it. No-op when absent.
func (b *Backend) Remove(text string) {
	p := b.mustParse(text)
	key := b.scheme.Key(p)
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, e := range b.entries {
		if k == key || b.isUnder(e.path, p) {
			delete(b.entries, k)
		}
	}
}

// Deny marks the entry at the given scheme text as access-denied: resolving
// still succeeds but enumeration and content opens fail.
func (b *Backend) Deny(text string) {
	p := b.mustParse(text)
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[b.scheme.Key(p)]; ok {
		e.denied = true
	}
}

// Resolve implements filer.Backend.
func (b *Backend) Resolve(ctx context.Context, path filer.CanonicalPath) (filer.NodeKind, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, err := b.resolveLocked(path, 0)
	if err != nil {
		return 0, err
	}
	return e.kind, nil
}

// EnumerateChildren implements filer.Backend.
func (b *Backend) EnumerateChildren(ctx context.Context, path filer.CanonicalPath) ([]filer.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dir, err := b.resolveLocked(path, 0)
	if err != nil {
		return nil, err
	}
	if dir.kind != filer.KindDirectory {
		return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrNotADirectory)
	}
	if dir.denied {
		return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrAccessDenied)
	}

	dirKey := b.scheme.Key(dir.path)
	var children []filer.Entry
	for _, e := range b.entries {
		if e.path.IsRoot() || b.scheme.Key(e.path.Parent()) != dirKey {
			continue
		}
		kind := e.kind
		if e.target != "" {
			if resolved, rerr := b.resolveLocked(e.path, 0); rerr == nil {
				kind = resolved.kind
			}
		}
		children = append(children, filer.Entry{
			Name:    e.path.Leaf(),
			Kind:    kind,
			Size:    e.size,
			ModTime: e.modTime,
			Target:  e.target,
		})
	}
	return children, nil
}

// OpenForRead implements filer.Backend.
func (b *Backend) OpenForRead(ctx context.Context, path filer.CanonicalPath) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, err := b.resolveLocked(path, 0)
	if err != nil {
		return nil, err
	}
	if e.denied {
		return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrAccessDenied)
	}
	if e.kind != filer.KindFile {
		return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrNotAFile)
	}
	return io.NopCloser(bytes.NewReader(e.content)), nil
}

// OpenForWrite implements filer.Backend.
// The written content replaces the file when the handle is closed.
func (b *Backend) OpenForWrite(ctx context.Context, path filer.CanonicalPath) (io.WriteCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := b.scheme.Key(path)
	if e, ok := b.entries[key]; ok {
		if e.denied {
			return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrAccessDenied)
		}
		if e.kind != filer.KindFile {
			return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrNotAFile)
		}
	} else {
		if _, err := b.resolveLocked(path.Parent(), 0); err != nil {
			return nil, err
		}
	}
	return &memoryWriter{backend: b, path: path}, nil
}

// resolveLocked looks a path up, following at most maxLinkHops symbolic
// entries. Callers must hold b.mu.
func (b *Backend) resolveLocked(path filer.CanonicalPath, hops int) (*entry, error) {
	const maxLinkHops = 16
	if hops > maxLinkHops {
		return nil, fmt.Errorf("%s: too many levels of symbolic entries: %w",
			b.scheme.Render(path), filer.ErrNotFound)
	}
	e, ok := b.entries[b.scheme.Key(path)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrNotFound)
	}
	if e.target == "" {
		return e, nil
	}
	target, err := b.scheme.Parse(e.target)
	if err != nil {
		return nil, fmt.Errorf("%s: bad link target: %w", b.scheme.Render(path), filer.ErrNotFound)
	}
	return b.resolveLocked(target, hops+1)
}

func (b *Backend) ensureDir(p filer.CanonicalPath) {
	key := b.scheme.Key(p)
	if _, ok := b.entries[key]; ok {
		return
	}
	if !p.IsRoot() {
		b.ensureDir(p.Parent())
	}
	b.entries[key] = &entry{
		path:    p,
		kind:    filer.KindDirectory,
		size:    filer.SizeUnknown,
		modTime: time.Now(),
	}
}

func (b *Backend) isUnder(p, ancestor filer.CanonicalPath) bool {
	if p.Depth() <= ancestor.Depth() {
		return false
	}
	return b.scheme.CompareIdentity(p.Truncate(ancestor.Depth()), ancestor)
}

func (b *Backend) mustParse(text string) filer.CanonicalPath {
	p, err := b.scheme.Parse(text)
	if err != nil {
		panic(fmt.Sprintf("memory backend fixture: %v", err))
	}
	return p
}

type memoryWriter struct {
	backend *Backend
	path    filer.CanonicalPath
	buf     bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	b := w.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.scheme.Key(w.path)] = &entry{
		path:    w.path,
		kind:    filer.KindFile,
		size:    int64(w.buf.Len()),
		modTime: time.Now(),
		content: append([]byte(nil), w.buf.Bytes()...),
	}
	return nil
}
