// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"context"
	"sync"
)

// FetchFunc loads detail records for ids in one batch call. It may return
// fewer records than requested; missing ids are simply not cached.
type FetchFunc[K comparable, V any] func(ctx context.Context, ids []K) (map[K]V, error)

// Prefetcher keeps a detail cache in step with a selection. Sync fetches
// only the ids that are not cached yet, so already loaded details are never
// requested twice.
type Prefetcher[K comparable, V any] struct {
	fetch FetchFunc[K, V]

	mu    sync.Mutex
	cache map[K]V
}

// NewPrefetcher returns a Prefetcher that loads details with fetch.
func NewPrefetcher[K comparable, V any](fetch FetchFunc[K, V]) *Prefetcher[K, V] {
	return &Prefetcher[K, V]{fetch: fetch, cache: make(map[K]V)}
}

// Missing returns, in order, the ids that have no cached detail.
func (p *Prefetcher[K, V]) Missing(ids []K) []K {
	p.mu.Lock()
	defer p.mu.Unlock()
	var missing []K
	seen := make(map[K]bool, len(ids))
	for _, id := range ids {
		if _, ok := p.cache[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}
	return missing
}

// Sync fetches details for the ids not yet cached, in one call, and returns
// the ids it requested. No call is made when nothing is missing. On error
// the cache is left unchanged.
func (p *Prefetcher[K, V]) Sync(ctx context.Context, ids []K) ([]K, error) {
	missing := p.Missing(ids)
	if len(missing) == 0 {
		return nil, nil
	}
	got, err := p.fetch(ctx, missing)
	if err != nil {
		return missing, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range missing {
		if v, ok := got[id]; ok {
			p.cache[id] = v
		}
	}
	return missing, nil
}

// Get returns the cached detail for id.
func (p *Prefetcher[K, V]) Get(id K) (V, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.cache[id]
	return v, ok
}

// Len returns the number of cached details.
func (p *Prefetcher[K, V]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cache)
}
