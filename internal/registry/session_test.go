package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/filer/internal/scheme"
	"github.com/vvka-141/filer/pkg/filer"
)

func nodeAt(t *testing.T, s filer.PathScheme, text string) filer.Node {
	t.Helper()
	p := mustParse(t, s, text)
	return filer.Node{Path: p, Name: p.Leaf(), Kind: filer.KindFile, FileType: filer.TypeData}
}

func listingOf(path filer.CanonicalPath, nodes ...filer.Node) *filer.Listing {
	return &filer.Listing{Path: path, Nodes: nodes, Taken: time.Now()}
}

func TestSession_SelectOnly(t *testing.T) {
	s := scheme.Posix{}
	sess := NewSession(s, mustParse(t, s, "/dir"))
	a := nodeAt(t, s, "/dir/a")
	b := nodeAt(t, s, "/dir/b")

	sess.SelectOnly(a)
	sess.SelectOnly(b)

	selected := sess.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "b", selected[0].Name)
	assert.Equal(t, Selected, sess.State(b.Path))
	assert.Equal(t, Unselected, sess.State(a.Path))
}

func TestSession_ToggleSelectIsItsOwnInverse(t *testing.T) {
	s := scheme.Posix{}
	sess := NewSession(s, mustParse(t, s, "/dir"))
	a := nodeAt(t, s, "/dir/a")
	b := nodeAt(t, s, "/dir/b")

	sess.SelectOnly(a)
	prior := sess.Selected()

	sess.ToggleSelect(b)
	assert.Equal(t, MultiSelected, sess.State(a.Path))
	assert.Equal(t, MultiSelected, sess.State(b.Path))

	sess.ToggleSelect(b)
	assert.Equal(t, prior, sess.Selected())
	assert.Equal(t, Selected, sess.State(a.Path))
}

func TestSession_SelectionIdentityFollowsScheme(t *testing.T) {
	s := scheme.RiscOS{}
	sess := NewSession(s, mustParse(t, s, "$.Dir"))
	upper := nodeAt(t, s, "$.Dir.File")
	lower := nodeAt(t, s, "$.dir.file")

	sess.ToggleSelect(upper)
	sess.ToggleSelect(lower)
	assert.Empty(t, sess.Selected(), "same identity class must toggle off")
}

func TestSession_ApplyListing_Generations(t *testing.T) {
	s := scheme.Posix{}
	path := mustParse(t, s, "/dir")
	sess := NewSession(s, path)

	stale := sess.BeginRefresh()
	current := sess.BeginRefresh()

	assert.False(t, sess.ApplyListing(stale, listingOf(path)), "superseded refresh must be discarded")
	assert.Nil(t, sess.Listing())

	assert.True(t, sess.ApplyListing(current, listingOf(path)))
	assert.NotNil(t, sess.Listing())
}

func TestSession_ApplyListing_DropsVanishedSelection(t *testing.T) {
	s := scheme.Posix{}
	path := mustParse(t, s, "/dir")
	sess := NewSession(s, path)
	a := nodeAt(t, s, "/dir/a")
	b := nodeAt(t, s, "/dir/b")

	gen := sess.BeginRefresh()
	require.True(t, sess.ApplyListing(gen, listingOf(path, a, b)))
	sess.ToggleSelect(a)
	sess.ToggleSelect(b)

	// b vanished externally; the refresh drops it from the selection.
	gen = sess.BeginRefresh()
	require.True(t, sess.ApplyListing(gen, listingOf(path, a)))

	selected := sess.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "a", selected[0].Name)
}

func TestSession_CloseDiscardsInFlightListing(t *testing.T) {
	s := scheme.Posix{}
	path := mustParse(t, s, "/dir")
	sess := NewSession(s, path)

	gen := sess.BeginRefresh()
	sess.Close()

	assert.False(t, sess.ApplyListing(gen, listingOf(path)))
	assert.True(t, sess.Closed())
	assert.False(t, sess.Active())
}

func TestSession_Navigate_ResetsState(t *testing.T) {
	s := scheme.Posix{}
	from := mustParse(t, s, "/from")
	to := mustParse(t, s, "/to")
	sess := NewSession(s, from)

	gen := sess.BeginRefresh()
	require.True(t, sess.ApplyListing(gen, listingOf(from, nodeAt(t, s, "/from/x"))))
	sess.ToggleSelect(nodeAt(t, s, "/from/x"))

	gen = sess.Navigate(to)
	assert.True(t, s.CompareIdentity(to, sess.Path()))
	assert.Nil(t, sess.Listing())
	assert.Empty(t, sess.Selected())

	// The pre-navigation listing is stale now.
	assert.True(t, sess.ApplyListing(gen, listingOf(to)))
}

func TestSession_DistinctIDs(t *testing.T) {
	s := scheme.Posix{}
	path := mustParse(t, s, "/dir")
	a := NewSession(s, path)
	b := NewSession(s, path)
	assert.NotEqual(t, a.ID(), b.ID())
}
