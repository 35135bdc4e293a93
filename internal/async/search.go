// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package async

import (
	"context"
	"sync"

	"github.com/pdiddy/regdesk/internal/apperr"
)

// SearchFunc performs one search against the backend.
type SearchFunc[Q, T any] func(ctx context.Context, q Q) ([]T, error)

// Search is a reusable search resource: query in, result list out, with a
// loading flag and the last error. It is parameterized by the endpoint call
// and by the accessor that yields an item's id.
type Search[Q any, T any] struct {
	fetch   SearchFunc[Q, T]
	idOf    func(T) string
	tracker Tracker

	mu      sync.RWMutex
	query   Q
	results []T
	err     error
	loading bool
}

// NewSearch returns a Search that calls fetch and identifies items with idOf.
func NewSearch[Q, T any](fetch SearchFunc[Q, T], idOf func(T) string) *Search[Q, T] {
	return &Search[Q, T]{fetch: fetch, idOf: idOf}
}

// Run issues a search for q, superseding any search still in flight. It
// returns the results when this run is still the latest at completion, or
// apperr.ErrStale when a newer run started meanwhile. Failed runs record
// their error but keep the previous results.
func (s *Search[Q, T]) Run(ctx context.Context, q Q) ([]T, error) {
	ticket := s.tracker.BeginWith(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = true
		s.query = q
	})
	defer ticket.Done()

	results, err := s.fetch(ticket.Ctx, q)

	committed := ticket.Commit(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false
		if err != nil {
			s.err = err
			return
		}
		s.err = nil
		s.results = results
	})
	if !committed {
		return nil, apperr.ErrStale
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Results returns the results of the latest successful run.
func (s *Search[Q, T]) Results() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.results))
	copy(out, s.results)
	return out
}

// Find returns the result with the given id.
func (s *Search[Q, T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if s.idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// IDs returns the ids of the current results in order.
func (s *Search[Q, T]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.results))
	for i, r := range s.results {
		ids[i] = s.idOf(r)
	}
	return ids
}

// Query returns the query of the most recent run.
func (s *Search[Q, T]) Query() Q {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Loading reports whether the latest run is still in flight.
func (s *Search[Q, T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the latest run, or nil.
func (s *Search[Q, T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Reset drops results and errors and cancels any search in flight.
func (s *Search[Q, T]) Reset() {
	s.tracker.BeginWith(context.Background(), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var zero Q
		s.query = zero
		s.results = nil
		s.err = nil
		s.loading = false
	}).Done()
}
