package memory

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/filer/internal/scheme"
	"github.com/vvka-141/filer/pkg/filer"
)

func mustParse(t *testing.T, s filer.PathScheme, text string) filer.CanonicalPath {
	t.Helper()
	p, err := s.Parse(text)
	require.NoError(t, err)
	return p
}

func TestBackend_ResolveAndEnumerate(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddFile("/docs/readme.txt", "hello")
	b.AddDir("/docs/archive")
	ctx := context.Background()

	kind, err := b.Resolve(ctx, mustParse(t, s, "/docs"))
	require.NoError(t, err)
	assert.Equal(t, filer.KindDirectory, kind)

	kind, err = b.Resolve(ctx, mustParse(t, s, "/docs/readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, filer.KindFile, kind)

	entries, err := b.EnumerateChildren(ctx, mustParse(t, s, "/docs"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := map[string]filer.NodeKind{}
	for _, e := range entries {
		names[e.Name] = e.Kind
	}
	assert.Equal(t, filer.KindFile, names["readme.txt"])
	assert.Equal(t, filer.KindDirectory, names["archive"])
}

func TestBackend_ResolveNotFound(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)

	_, err := b.Resolve(context.Background(), mustParse(t, s, "/missing"))
	assert.True(t, errors.Is(err, filer.ErrNotFound))
}

func TestBackend_EnumerateFile(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddFile("/a.txt", "x")

	_, err := b.EnumerateChildren(context.Background(), mustParse(t, s, "/a.txt"))
	assert.True(t, errors.Is(err, filer.ErrNotADirectory))
}

func TestBackend_Deny(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddDir("/secret")
	b.AddFile("/secret/key", "s3cr3t")
	b.Deny("/secret")
	ctx := context.Background()

	_, err := b.EnumerateChildren(ctx, mustParse(t, s, "/secret"))
	assert.True(t, errors.Is(err, filer.ErrAccessDenied))

	// Resolve still reports the entry.
	kind, err := b.Resolve(ctx, mustParse(t, s, "/secret"))
	require.NoError(t, err)
	assert.Equal(t, filer.KindDirectory, kind)
}

func TestBackend_CaseRulesFollowScheme(t *testing.T) {
	s := scheme.RiscOS{}
	b := New(s)
	b.AddFile("$.Docs.Report", "r")

	// Case-insensitive scheme: a different spelling resolves.
	kind, err := b.Resolve(context.Background(), mustParse(t, s, "$.docs.report"))
	require.NoError(t, err)
	assert.Equal(t, filer.KindFile, kind)
}

func TestBackend_LinkResolution(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddDir("/real")
	b.AddFile("/real/data", "d")
	b.AddLink("/alias", "/real")
	ctx := context.Background()

	kind, err := b.Resolve(ctx, mustParse(t, s, "/alias"))
	require.NoError(t, err)
	assert.Equal(t, filer.KindDirectory, kind)

	entries, err := b.EnumerateChildren(ctx, mustParse(t, s, "/"))
	require.NoError(t, err)
	for _, e := range entries {
		if e.Name == "alias" {
			assert.Equal(t, "/real", e.Target)
		}
	}
}

func TestBackend_LinkLoopIsNotFound(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddLink("/a", "/b")
	b.AddLink("/b", "/a")

	_, err := b.Resolve(context.Background(), mustParse(t, s, "/a"))
	assert.True(t, errors.Is(err, filer.ErrNotFound))
}

func TestBackend_OpenForRead(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddFile("/a.txt", "content")
	ctx := context.Background()

	rc, err := b.OpenForRead(ctx, mustParse(t, s, "/a.txt"))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = b.OpenForRead(ctx, mustParse(t, s, "/"))
	assert.True(t, errors.Is(err, filer.ErrNotAFile))
}

func TestBackend_OpenForWrite(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddDir("/out")
	ctx := context.Background()

	wc, err := b.OpenForWrite(ctx, mustParse(t, s, "/out/new.txt"))
	require.NoError(t, err)
	_, err = wc.Write([]byte("written"))
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := b.OpenForRead(ctx, mustParse(t, s, "/out/new.txt"))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "written", string(data))
}

func TestBackend_Remove(t *testing.T) {
	s := scheme.Posix{}
	b := New(s)
	b.AddFile("/dir/a", "a")
	b.AddFile("/dir/sub/b", "b")
	b.Remove("/dir")

	_, err := b.Resolve(context.Background(), mustParse(t, s, "/dir/sub/b"))
	assert.True(t, errors.Is(err, filer.ErrNotFound))
}
