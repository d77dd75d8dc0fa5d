package enumerate

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/vvka-141/filer/internal/logging"
	"github.com/vvka-141/filer/pkg/filer"
)

// leafTyper is implemented by schemes whose leaf spelling carries a numeric
// file type (the RISC OS ",xxx" suffix convention).
type leafTyper interface {
	LeafFileType(leaf string) (int, bool)
}

// Enumerator lists directories through a backend, producing stable,
// cycle-safe listings. Safe for concurrent use as long as the backend is.
type Enumerator struct {
	backend filer.Backend
	scheme  filer.PathScheme
	log     filer.Logger
	cache   *dirCache // nil when caching is disabled
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithCache enables per-directory listing caching. Cached listings are
// returned until Invalidate or InvalidateAll is called for their key.
func WithCache() Option {
	return func(e *Enumerator) { e.cache = newDirCache() }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log filer.Logger) Option {
	return func(e *Enumerator) { e.log = log }
}

// New creates an Enumerator.
// Panics if backend or scheme is nil.
func New(backend filer.Backend, scheme filer.PathScheme, opts ...Option) *Enumerator {
	if backend == nil {
		panic("backend cannot be nil")
	}
	if scheme == nil {
		panic("scheme cannot be nil")
	}
	e := &Enumerator{
		backend: backend,
		scheme:  scheme,
		log:     logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// List produces the ordered listing of a directory.
//
// Fails wrapping filer.ErrNotFound when the path does not resolve,
// filer.ErrNotADirectory when it resolves to a file, and surfaces
// filer.ErrAccessDenied verbatim from the backend. The returned listing is
// immutable; call List again (after Invalidate, when caching) to observe
// underlying changes.
func (e *Enumerator) List(ctx context.Context, path filer.CanonicalPath) (*filer.Listing, error) {
	key := e.scheme.Key(path)
	if cached := e.cache.get(key); cached != nil {
		e.log.Verbose("listing %s served from cache", e.scheme.Render(path))
		return cached, nil
	}

	kind, err := e.backend.Resolve(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", e.scheme.Render(path), err)
	}
	if kind != filer.KindDirectory {
		return nil, fmt.Errorf("%s: %w", e.scheme.Render(path), filer.ErrNotADirectory)
	}

	entries, err := e.backend.EnumerateChildren(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", e.scheme.Render(path), err)
	}

	nodes := make([]filer.Node, 0, len(entries))
	for _, entry := range entries {
		nodes = append(nodes, e.nodeFor(path, entry))
	}
	sort.Slice(nodes, func(i, j int) bool {
		if c := e.scheme.Collate(nodes[i].Name, nodes[j].Name); c != 0 {
			return c < 0
		}
		return e.scheme.Key(nodes[i].Path) < e.scheme.Key(nodes[j].Path)
	})

	listing := &filer.Listing{
		Path:  path,
		Nodes: nodes,
		Taken: time.Now(),
	}
	e.cache.put(key, listing)
	e.log.Verbose("listed %s: %d nodes", e.scheme.Render(path), len(nodes))
	return listing, nil
}

// OpenDir yields the listing behind a directory node.
func (e *Enumerator) OpenDir(ctx context.Context, node filer.Node) (*filer.Listing, error) {
	if node.Kind != filer.KindDirectory {
		return nil, fmt.Errorf("%s: %w", node.Name, filer.ErrNotADirectory)
	}
	return e.List(ctx, node.Path)
}

// OpenFile yields a content read handle for a file node. Content handling
// beyond the handle is delegated entirely to the backend.
func (e *Enumerator) OpenFile(ctx context.Context, node filer.Node) (io.ReadCloser, error) {
	if node.Kind == filer.KindDirectory {
		return nil, fmt.Errorf("%s: %w", node.Name, filer.ErrNotAFile)
	}
	return e.backend.OpenForRead(ctx, node.Path)
}

// Invalidate drops the cached listing for a directory. No-op when caching
// is disabled or the directory is not cached.
func (e *Enumerator) Invalidate(path filer.CanonicalPath) {
	e.cache.invalidate(e.scheme.Key(path))
}

// InvalidateAll drops every cached listing.
func (e *Enumerator) InvalidateAll() {
	e.cache.invalidateAll()
}

func (e *Enumerator) nodeFor(dir filer.CanonicalPath, entry filer.Entry) filer.Node {
	child := dir.Child(entry.Name)
	node := filer.Node{
		Path:       child,
		Name:       entry.Name,
		Kind:       entry.Kind,
		FileType:   e.fileTypeFor(entry),
		Size:       entry.Size,
		ModTime:    entry.ModTime,
		Enumerable: entry.Kind == filer.KindDirectory,
	}
	if entry.Target != "" && node.Enumerable && e.loops(entry.Target, child) {
		node.Enumerable = false
	}
	return node
}

// loops reports whether a symbolic entry's target is the entry itself or
// one of its ancestors, which would make naive recursion endless.
func (e *Enumerator) loops(targetText string, child filer.CanonicalPath) bool {
	target, err := e.scheme.Parse(targetText)
	if err != nil {
		e.log.Verbose("unparsable link target %q under %s", targetText, e.scheme.Render(child))
		return false
	}
	if target.Depth() > child.Depth() {
		return false
	}
	return e.scheme.CompareIdentity(target, child.Truncate(target.Depth()))
}

func (e *Enumerator) fileTypeFor(entry filer.Entry) int {
	if entry.Kind == filer.KindDirectory {
		return filer.TypeDirectory
	}
	if lt, ok := e.scheme.(leafTyper); ok {
		if ft, ok := lt.LeafFileType(entry.Name); ok {
			return ft
		}
	}
	return filer.TypeData
}
