// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package async runs searches where only the most recent request may
// publish its result. Every request gets a monotonically increasing id;
// beginning a new one cancels the previous one, and a response whose id is
// no longer the latest is discarded with apperr.ErrStale.
package async

import (
	"context"
	"sync"
)

// Tracker hands out request tickets for one resource.
type Tracker struct {
	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

// Ticket identifies one in-flight request.
type Ticket struct {
	ID  uint64
	Ctx context.Context

	t      *Tracker
	cancel context.CancelFunc
}

// Begin cancels the previous in-flight request and returns a ticket whose
// context is derived from ctx.
func (t *Tracker) Begin(ctx context.Context) *Ticket {
	return t.BeginWith(ctx, nil)
}

// BeginWith is Begin that also runs apply, if non-nil, under the tracker
// lock. State recorded by apply is ordered exactly like the tickets.
func (t *Tracker) BeginWith(ctx context.Context, apply func()) *Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.latest++
	cctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	if apply != nil {
		apply()
	}
	return &Ticket{ID: t.latest, Ctx: cctx, t: t, cancel: cancel}
}

// Latest returns the id of the most recently issued ticket.
func (t *Tracker) Latest() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// Current reports whether no newer ticket has been issued.
func (k *Ticket) Current() bool {
	return k.t.Latest() == k.ID
}

// Commit runs apply while holding the tracker lock if k is still the latest
// ticket, and reports whether it did. Holding the lock keeps a concurrent
// Begin from slipping in between the check and the state update.
func (k *Ticket) Commit(apply func()) bool {
	k.t.mu.Lock()
	defer k.t.mu.Unlock()
	if k.t.latest != k.ID {
		return false
	}
	apply()
	return true
}

// Done releases the ticket's context.
func (k *Ticket) Done() {
	k.cancel()
}
