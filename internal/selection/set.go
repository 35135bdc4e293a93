// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection accumulates the user's picks (PMIDs, event terms,
// endpoints, document ids) and keeps the detail records for them in step.
package selection

// Set is an ordered set of ids. Items come back in insertion order and an
// id is never held twice. The zero value is ready to use.
type Set[K comparable] struct {
	order []K
	index map[K]int
}

// NewSet returns a Set holding ids in the given order, duplicates dropped.
func NewSet[K comparable](ids ...K) *Set[K] {
	s := &Set[K]{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Toggle removes id if present, otherwise appends it. It reports whether id
// is selected afterwards.
func (s *Set[K]) Toggle(id K) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Add appends id unless it is already present. It reports whether the set
// changed.
func (s *Set[K]) Add(id K) bool {
	if s.index == nil {
		s.index = make(map[K]int)
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.order)
	s.order = append(s.order, id)
	return true
}

// Remove deletes id, preserving the order of the remaining ids. It reports
// whether the set changed.
func (s *Set[K]) Remove(id K) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	s.order = append(s.order[:i], s.order[i+1:]...)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
	return true
}

// Has reports whether id is selected.
func (s *Set[K]) Has(id K) bool {
	_, ok := s.index[id]
	return ok
}

// Clear empties the set.
func (s *Set[K]) Clear() {
	s.order = nil
	s.index = nil
}

// Len returns the number of selected ids.
func (s *Set[K]) Len() int { return len(s.order) }

// Items returns a copy of the ids in insertion order. The result is never
// nil so it encodes as an empty JSON array.
func (s *Set[K]) Items() []K {
	out := make([]K, len(s.order))
	copy(out, s.order)
	return out
}

// Pick returns, in selection order, the items whose id is selected. id
// extracts an item's id; items not in the set are skipped.
func Pick[K comparable, T any](s *Set[K], items []T, id func(T) K) []T {
	byID := make(map[K]T, len(items))
	for _, it := range items {
		byID[id(it)] = it
	}
	out := make([]T, 0, s.Len())
	for _, k := range s.order {
		if it, ok := byID[k]; ok {
			out = append(out, it)
		}
	}
	return out
}
