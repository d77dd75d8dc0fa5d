// Package osfs adapts the host operating system's filesystem to the filer
// backend capability set.
//
// The adapter is deliberately thin: a canonical path maps to a native path
// under a fixed anchor directory, os errors map onto the filer sentinels,
// and symbolic links are reported with their resolved target so the
// enumerator can apply its cycle guard. No navigation or identity logic
// lives here.
package osfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/filer/pkg/filer"
)

// Backend implements filer.Backend over the host filesystem, anchored at a
// native directory that plays the role of the scheme's root.
type Backend struct {
	scheme filer.PathScheme
	anchor string
}

var _ filer.Backend = (*Backend)(nil)

// New creates an OS backend rooted at the given native anchor directory.
// Panics if scheme is nil or anchor is empty.
func New(scheme filer.PathScheme, anchor string) *Backend {
	if scheme == nil {
		panic("scheme cannot be nil")
	}
	if anchor == "" {
		panic("anchor cannot be empty")
	}
	return &Backend{scheme: scheme, anchor: filepath.Clean(anchor)}
}

// Anchor returns the native directory the canonical root maps to.
func (b *Backend) Anchor() string { return b.anchor }

// NativePath translates a canonical path to its native form under the
// anchor.
func (b *Backend) NativePath(p filer.CanonicalPath) string {
	parts := p.Components()
	if len(parts) == 0 {
		return b.anchor
	}
	return filepath.Join(b.anchor, filepath.Join(parts...))
}

// CanonicalFor translates a native path back to canonical form. Returns
// false for paths outside the anchor.
func (b *Backend) CanonicalFor(native string) (filer.CanonicalPath, bool) {
	rel, err := filepath.Rel(b.anchor, filepath.Clean(native))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filer.CanonicalPath{}, false
	}
	if rel == "." {
		return filer.NewCanonicalPath(b.scheme.Name()), true
	}
	return filer.NewCanonicalPath(b.scheme.Name(), strings.Split(filepath.ToSlash(rel), "/")...), true
}

// Resolve implements filer.Backend.
func (b *Backend) Resolve(ctx context.Context, path filer.CanonicalPath) (filer.NodeKind, error) {
	info, err := os.Stat(b.NativePath(path))
	if err != nil {
		return 0, b.mapError(path, err)
	}
	if info.IsDir() {
		return filer.KindDirectory, nil
	}
	return filer.KindFile, nil
}

// EnumerateChildren implements filer.Backend.
func (b *Backend) EnumerateChildren(ctx context.Context, path filer.CanonicalPath) ([]filer.Entry, error) {
	native := b.NativePath(path)
	info, err := os.Stat(native)
	if err != nil {
		return nil, b.mapError(path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", b.scheme.Render(path), filer.ErrNotADirectory)
	}

	dirents, err := os.ReadDir(native)
	if err != nil {
		return nil, b.mapError(path, err)
	}

	entries := make([]filer.Entry, 0, len(dirents))
	for _, de := range dirents {
		entries = append(entries, b.entryFor(native, de))
	}
	return entries, nil
}

// OpenForRead implements filer.Backend.
func (b *Backend) OpenForRead(ctx context.Context, path filer.CanonicalPath) (io.ReadCloser, error) {
	f, err := os.Open(b.NativePath(path))
	if err != nil {
		return nil, b.mapError(path, err)
	}
	return f, nil
}

// OpenForWrite implements filer.Backend.
func (b *Backend) OpenForWrite(ctx context.Context, path filer.CanonicalPath) (io.WriteCloser, error) {
	f, err := os.Create(b.NativePath(path))
	if err != nil {
		return nil, b.mapError(path, err)
	}
	return f, nil
}

func (b *Backend) entryFor(dir string, de os.DirEntry) filer.Entry {
	e := filer.Entry{
		Name: de.Name(),
		Kind: filer.KindFile,
		Size: filer.SizeUnknown,
	}
	if info, err := de.Info(); err == nil {
		e.ModTime = info.ModTime()
		if !info.IsDir() {
			e.Size = info.Size()
		}
	}
	if de.IsDir() {
		e.Kind = filer.KindDirectory
	}
	if de.Type()&fs.ModeSymlink != 0 {
		b.fillLink(&e, filepath.Join(dir, de.Name()))
	}
	return e
}

// fillLink resolves a symlink entry to its final target, setting the kind
// from the target and the canonical target text when it stays under the
// anchor. Broken links stay reported as plain files.
func (b *Backend) fillLink(e *filer.Entry, native string) {
	resolved, err := filepath.EvalSymlinks(native)
	if err != nil {
		return
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return
	}
	if info.IsDir() {
		e.Kind = filer.KindDirectory
		e.Size = filer.SizeUnknown
	} else {
		e.Kind = filer.KindFile
		e.Size = info.Size()
	}
	if target, ok := b.CanonicalFor(resolved); ok {
		e.Target = b.scheme.Render(target)
	}
}

func (b *Backend) mapError(path filer.CanonicalPath, err error) error {
	rendered := b.scheme.Render(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w", rendered, filer.ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s: %w", rendered, filer.ErrAccessDenied)
	default:
		return fmt.Errorf("%s: %w", rendered, err)
	}
}
