package editor

import "sync"

// MarkerPublisher is the editor-side sink for diagnostic markers. The
// bridge's diagnostic channel publishes whole-set replacements through
// it; implementations update whatever presentation the editor has
// (squiggles, gutter icons, a status line).
type MarkerPublisher interface {
	// SetMarkers replaces all markers owned by owner for the given URI.
	SetMarkers(owner, uri string, markers []Marker)
}

// MarkerStore is an in-memory MarkerPublisher that keeps the latest
// marker set per (owner, uri). It backs the demo editing surface and the
// bridge tests.
type MarkerStore struct {
	mu      sync.RWMutex
	markers map[markerKey][]Marker
}

type markerKey struct {
	owner string
	uri   string
}

// NewMarkerStore creates an empty marker store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{markers: make(map[markerKey][]Marker)}
}

// SetMarkers implements MarkerPublisher.
func (s *MarkerStore) SetMarkers(owner, uri string, markers []Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := markerKey{owner: owner, uri: uri}
	if len(markers) == 0 {
		delete(s.markers, key)
		return
	}
	stored := make([]Marker, len(markers))
	copy(stored, markers)
	s.markers[key] = stored
}

// Markers returns the current marker set for an (owner, uri) pair.
func (s *MarkerStore) Markers(owner, uri string) []Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.markers[markerKey{owner: owner, uri: uri}]
	if len(stored) == 0 {
		return nil
	}
	result := make([]Marker, len(stored))
	copy(result, stored)
	return result
}
