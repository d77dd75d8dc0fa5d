package registry

import (
	"sort"
	"sync"

	"github.com/vvka-141/filer/pkg/filer"
)

// SessionInfo is one row of a registry snapshot, for building a "windows"
// menu in the presentation layer.
type SessionInfo struct {
	Path   filer.CanonicalPath
	Active bool
}

// Registry maps directory identity keys to live sessions.
// Safe for concurrent use; see the package comment for the atomicity
// guarantees.
type Registry struct {
	scheme filer.PathScheme

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates an empty Registry.
// Panics if scheme is nil.
func New(scheme filer.PathScheme) *Registry {
	if scheme == nil {
		panic("scheme cannot be nil")
	}
	return &Registry{
		scheme:   scheme,
		sessions: make(map[string]*Session),
	}
}

// LookupOrCreate returns the live session registered for the path's
// identity class, or invokes factory to build one, registers and returns
// it. The second result reports whether a new session was created; when it
// is false the caller's UI layer should raise the existing window rather
// than open another.
func (r *Registry) LookupOrCreate(path filer.CanonicalPath, factory func() *Session) (*Session, bool) {
	key := r.scheme.Key(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok && !s.Closed() {
		return s, false
	}
	s := factory()
	r.sessions[key] = s
	return s, true
}

// Lookup returns the live session registered for the path's identity
// class, if any.
func (r *Registry) Lookup(path filer.CanonicalPath) (*Session, bool) {
	key := r.scheme.Key(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	if !ok || s.Closed() {
		return nil, false
	}
	return s, true
}

// Insert registers a session under its current key if the key is free.
// Returns false when another live session already holds the key; the
// session then simply stays unregistered, preserving the one-per-identity
// invariant while the independent window lives alongside.
func (r *Registry) Insert(s *Session) bool {
	key := s.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[key]; ok && cur != s && !cur.Closed() {
		return false
	}
	r.sessions[key] = s
	return true
}

// Remove deletes the registration for a path. No-op when absent.
func (r *Registry) Remove(path filer.CanonicalPath) {
	key := r.scheme.Key(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Release removes a session's registration only if it is the registered
// holder of its key. Closing an unregistered sibling window must not evict
// the registered session for the same directory.
func (r *Registry) Release(s *Session) {
	key := s.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[key]; ok && cur == s {
		delete(r.sessions, key)
	}
}

// Rekey atomically moves a session to a new directory identity: the old
// registration (if owned by s) is dropped, the session navigates in place,
// and it is registered under the new key. Fails without side effects when
// a different live session already holds the new key; the caller should
// reuse that session instead.
//
// The refresh generation for the navigated-to listing is returned on
// success.
func (r *Registry) Rekey(s *Session, path filer.CanonicalPath) (uint64, bool) {
	newKey := r.scheme.Key(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[newKey]; ok && cur != s && !cur.Closed() {
		return 0, false
	}
	oldKey := s.Key()
	if cur, ok := r.sessions[oldKey]; ok && cur == s {
		delete(r.sessions, oldKey)
	}
	gen := s.Navigate(path)
	r.sessions[newKey] = s
	return gen, true
}

// Activate marks one session active and every other registered session
// inactive. The session need not be registered.
func (r *Registry) Activate(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.sessions {
		if other != s {
			other.setActive(false)
		}
	}
	s.setActive(true)
}

// Snapshot returns the registered sessions as (path, active) pairs in
// deterministic key order.
func (r *Registry) Snapshot() []SessionInfo {
	r.mu.Lock()
	keys := make([]string, 0, len(r.sessions))
	for k := range r.sessions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	infos := make([]SessionInfo, 0, len(keys))
	sessions := make([]*Session, 0, len(keys))
	for _, k := range keys {
		sessions = append(sessions, r.sessions[k])
	}
	r.mu.Unlock()

	// Session state is read outside the registry lock to keep the lock
	// ordering registry -> session one-way.
	for _, s := range sessions {
		infos = append(infos, SessionInfo{Path: s.Path(), Active: s.Active()})
	}
	return infos
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
