// Package content provides the in-memory accumulated content store: the
// ordered collection of fragments a workspace builds up over a solving
// session. The SQL store is the durable record; this store is the hot
// working set the renderers and the materializer operate on.
package content

import (
	"sync"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// Store holds fragments for one session in insertion order.
type Store struct {
	mu        sync.RWMutex
	fragments []domain.Fragment
	index     map[string]int
}

// NewStore creates an empty content store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// Append adds fragments to the end of the collection, preserving their
// order. Fragments whose ID already exists are ignored.
func (s *Store) Append(fragments ...domain.Fragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fragments {
		if _, ok := s.index[f.FragmentID]; ok {
			continue
		}
		s.index[f.FragmentID] = len(s.fragments)
		s.fragments = append(s.fragments, f)
	}
}

// Get returns the fragment with the given ID, or nil.
func (s *Store) Get(fragmentID string) *domain.Fragment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[fragmentID]
	if !ok {
		return nil
	}
	f := s.fragments[i]
	return &f
}

// UpdateByID applies fn to the fragment with the given ID, in place.
// The fragment keeps its position. Returns false if the ID is unknown.
func (s *Store) UpdateByID(fragmentID string, fn func(*domain.Fragment)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[fragmentID]
	if !ok {
		return false
	}
	fn(&s.fragments[i])
	return true
}

// RemoveByID removes the fragment with the given ID. The order of the
// remaining fragments is preserved. Returns false if the ID is unknown.
func (s *Store) RemoveByID(fragmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[fragmentID]
	if !ok {
		return false
	}
	s.fragments = append(s.fragments[:i], s.fragments[i+1:]...)
	delete(s.index, fragmentID)
	for j := i; j < len(s.fragments); j++ {
		s.index[s.fragments[j].FragmentID] = j
	}
	return true
}

// List returns a copy of all fragments in insertion order.
func (s *Store) List() []domain.Fragment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Fragment, len(s.fragments))
	copy(out, s.fragments)
	return out
}

// FilterByKind returns a copy of the fragments of the given kind, in
// insertion order.
func (s *Store) FilterByKind(kind domain.FragmentKind) []domain.Fragment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Fragment
	for _, f := range s.fragments {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of fragments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fragments)
}

// Registry maps session IDs to their content stores.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*Store),
	}
}

// ForSession returns the content store for a session, creating it on
// first use.
func (r *Registry) ForSession(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[sessionID]
	if !ok {
		s = NewStore()
		r.stores[sessionID] = s
	}
	return s
}

// Drop discards a session's content store.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}
