package registry

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vvka-141/filer/pkg/filer"
)

// SelectionState describes a node's standing within a session's selection.
type SelectionState int

const (
	// Unselected: the node is not in the selection set.
	Unselected SelectionState = iota
	// Selected: the node is the only member of the selection set.
	Selected
	// MultiSelected: the node is one of two or more selected nodes.
	MultiSelected
)

// Session is a live navigation context bound to exactly one directory
// identity. It owns the current listing snapshot and the selection set.
//
// Sessions are created through Registry.LookupOrCreate or NewSession and
// discarded after Close. All methods are safe for concurrent use.
type Session struct {
	id     uuid.UUID
	scheme filer.PathScheme

	mu       sync.Mutex
	path     filer.CanonicalPath
	active   bool
	closed   bool
	listing  *filer.Listing
	selected map[string]filer.Node
	gen      uint64
}

// NewSession creates a session displaying the given directory path.
// Panics if scheme is nil.
func NewSession(scheme filer.PathScheme, path filer.CanonicalPath) *Session {
	if scheme == nil {
		panic("scheme cannot be nil")
	}
	return &Session{
		id:       uuid.New(),
		scheme:   scheme,
		path:     path,
		selected: make(map[string]filer.Node),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Path returns the directory the session currently displays.
func (s *Session) Path() filer.CanonicalPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Key returns the identity key of the displayed directory.
func (s *Session) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheme.Key(s.path)
}

// Active reports whether the session is the active (focused) one.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Listing returns the current listing snapshot, or nil before the first
// refresh completes. The snapshot is immutable; later refreshes install a
// new one rather than mutating it.
func (s *Session) Listing() *filer.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing
}

// SelectOnly clears the selection and selects the single given node.
func (s *Session) SelectOnly(node filer.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]filer.Node{s.scheme.Key(node.Path): node}
}

// ToggleSelect flips the node's membership in the selection set without
// affecting other members. Toggling twice restores the prior set.
func (s *Session) ToggleSelect(node filer.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.scheme.Key(node.Path)
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
	} else {
		s.selected[key] = node
	}
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]filer.Node)
}

// Selected returns the selected nodes ordered by identity key.
func (s *Session) Selected() []filer.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.selected))
	for k := range s.selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	nodes := make([]filer.Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, s.selected[k])
	}
	return nodes
}

// State reports the selection state of the node at the given path.
func (s *Session) State(path filer.CanonicalPath) SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[s.scheme.Key(path)]; !ok {
		return Unselected
	}
	if len(s.selected) >= 2 {
		return MultiSelected
	}
	return Selected
}

// BeginRefresh starts a new refresh generation and returns its token.
// A listing produced for an older token is stale and will be discarded.
func (s *Session) BeginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// ApplyListing installs a refreshed listing if the generation token is
// still current and the session is open. Selected nodes that vanished from
// the new listing are dropped from the selection set. Returns false when
// the listing was discarded as stale.
func (s *Session) ApplyListing(gen uint64, listing *filer.Listing) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return false
	}
	s.listing = listing
	if len(s.selected) == 0 {
		return true
	}
	present := make(map[string]struct{}, len(listing.Nodes))
	for _, n := range listing.Nodes {
		present[s.scheme.Key(n.Path)] = struct{}{}
	}
	for key := range s.selected {
		if _, ok := present[key]; !ok {
			delete(s.selected, key)
		}
	}
	return true
}

// Navigate re-keys the session to a new directory in place: the selection
// and listing are reset and a fresh refresh generation is returned for the
// caller to request the new listing under.
//
// Callers must go through Registry.Rekey so the registry map and the
// session path move together.
func (s *Session) Navigate(path filer.CanonicalPath) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.listing = nil
	s.selected = make(map[string]filer.Node)
	s.gen++
	return s.gen
}

// Close marks the session closed. Pending listing results are discarded by
// ApplyListing's closed check. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.active = false
}

func (s *Session) setActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.active = active
	}
}
