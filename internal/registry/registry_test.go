package registry

import (
	"sync"
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

func TestLookupOrCreate_ReusesPerIdentity(t *testing.T) {
	s := scheme.RiscOS{}
	r := New(s)
	path := mustParse(t, s, "$.Apps")

	first, created := r.LookupOrCreate(path, func() *Session { return NewSession(s, path) })
	require.True(t, created)

	// A different spelling of the same identity class reuses the session.
	alias := mustParse(t, s, "$.apps")
	second, created := r.LookupOrCreate(alias, func() *Session { return NewSession(s, alias) })
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestLookupOrCreate_CaseSensitiveSchemeSeparates(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	a := mustParse(t, s, "/Apps")
	b := mustParse(t, s, "/apps")

	first, _ := r.LookupOrCreate(a, func() *Session { return NewSession(s, a) })
	second, created := r.LookupOrCreate(b, func() *Session { return NewSession(s, b) })
	assert.True(t, created)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, r.Len())
}

func TestRemove_AndNoOpWhenAbsent(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	path := mustParse(t, s, "/dir")

	r.Remove(path) // absent: no-op

	r.LookupOrCreate(path, func() *Session { return NewSession(s, path) })
	r.Remove(path)
	assert.Equal(t, 0, r.Len())
}

func TestRelease_OnlyEvictsOwner(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	path := mustParse(t, s, "/dir")

	registered, _ := r.LookupOrCreate(path, func() *Session { return NewSession(s, path) })
	detached := NewSession(s, path)

	r.Release(detached)
	got, ok := r.Lookup(path)
	require.True(t, ok, "registered session must survive release of a detached sibling")
	assert.Same(t, registered, got)

	r.Release(registered)
	_, ok = r.Lookup(path)
	assert.False(t, ok)
}

func TestInsert_BestEffort(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	path := mustParse(t, s, "/dir")

	first := NewSession(s, path)
	require.True(t, r.Insert(first))

	second := NewSession(s, path)
	assert.False(t, r.Insert(second), "occupied key must refuse a second registration")
	assert.Equal(t, 1, r.Len())

	// Re-inserting the holder is fine.
	assert.True(t, r.Insert(first))
}

func TestRekey_MovesRegistration(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	from := mustParse(t, s, "/from")
	to := mustParse(t, s, "/to")

	sess, _ := r.LookupOrCreate(from, func() *Session { return NewSession(s, from) })
	gen, ok := r.Rekey(sess, to)
	require.True(t, ok)
	assert.Positive(t, gen)

	_, found := r.Lookup(from)
	assert.False(t, found)
	got, found := r.Lookup(to)
	require.True(t, found)
	assert.Same(t, sess, got)
	assert.True(t, s.CompareIdentity(to, sess.Path()))
}

func TestRekey_RefusedWhenOccupied(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	from := mustParse(t, s, "/from")
	to := mustParse(t, s, "/to")

	sess, _ := r.LookupOrCreate(from, func() *Session { return NewSession(s, from) })
	other, _ := r.LookupOrCreate(to, func() *Session { return NewSession(s, to) })

	_, ok := r.Rekey(sess, to)
	assert.False(t, ok)

	// Nothing moved.
	got, found := r.Lookup(from)
	require.True(t, found)
	assert.Same(t, sess, got)
	got, found = r.Lookup(to)
	require.True(t, found)
	assert.Same(t, other, got)
}

func TestActivate_SingleActive(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	a := mustParse(t, s, "/a")
	b := mustParse(t, s, "/b")

	sa, _ := r.LookupOrCreate(a, func() *Session { return NewSession(s, a) })
	sb, _ := r.LookupOrCreate(b, func() *Session { return NewSession(s, b) })

	r.Activate(sa)
	assert.True(t, sa.Active())
	assert.False(t, sb.Active())

	r.Activate(sb)
	assert.False(t, sa.Active())
	assert.True(t, sb.Active())
}

func TestSnapshot_DeterministicOrder(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	for _, text := range []string{"/c", "/a", "/b"} {
		p := mustParse(t, s, text)
		r.LookupOrCreate(p, func() *Session { return NewSession(s, p) })
	}

	infos := r.Snapshot()
	require.Len(t, infos, 3)
	rendered := make([]string, 0, 3)
	for _, info := range infos {
		rendered = append(rendered, s.Render(info.Path))
	}
	assert.Equal(t, []string{"/a", "/b", "/c"}, rendered)
}

// The identity-uniqueness property: arbitrary interleavings of opens and
// closes never leave two registered sessions in one identity class.
func TestRegistry_IdentityUniquenessUnderConcurrency(t *testing.T) {
	s := scheme.Posix{}
	r := New(s)
	path := mustParse(t, s, "/contended")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				sess, _ := r.LookupOrCreate(path, func() *Session { return NewSession(s, path) })
				if j%3 == 0 {
					r.Release(sess)
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 1)
}

func TestNew_NilSchemePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil scheme")
		}
	}()
	New(nil)
}
