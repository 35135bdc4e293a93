// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submit

import (
	"context"
	"sync"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/notify"
)

// State is the position of a Flow in its lifecycle.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Flow runs submissions of a Form and keeps the last successful result.
type Flow[R any] struct {
	form     *Form
	notifier notify.Notifier
	name     string

	mu      sync.Mutex
	state   State
	result  R
	has     bool
	lastErr error
}

// NewFlow returns a Flow in Idle for form. Errors are reported to n under
// the given operation name; a nil notifier discards them.
func NewFlow[R any](name string, form *Form, n notify.Notifier) *Flow[R] {
	if n == nil {
		n = notify.Discard{}
	}
	return &Flow[R]{form: form, notifier: n, name: name}
}

// Form returns the flow's form.
func (f *Flow[R]) Form() *Form { return f.form }

// State returns the current state.
func (f *Flow[R]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Enabled reports whether the submit action is available: every
// requirement met and no submission in flight.
func (f *Flow[R]) Enabled() bool {
	return f.State() != Submitting && f.form.CanSubmit()
}

// Result returns the last successful result.
func (f *Flow[R]) Result() (R, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.has
}

// Err returns the error of the last failed submission, cleared on success.
func (f *Flow[R]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit validates the form and runs fn. Validation failures are returned
// without changing state. A second Submit while one is in flight returns
// apperr.ErrSubmitting. On success the result replaces the previous one and
// the flow moves to Success; on failure the flow moves to Failure and the
// previous successful result is kept as it was.
func (f *Flow[R]) Submit(ctx context.Context, fn func(ctx context.Context) (R, error)) (R, error) {
	var zero R
	if err := f.form.Validate(); err != nil {
		f.notifier.Error(f.name, err)
		return zero, err
	}

	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return zero, apperr.ErrSubmitting
	}
	f.state = Submitting
	f.mu.Unlock()

	res, err := fn(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failure
		f.lastErr = err
		f.notifier.Error(f.name, err)
		return zero, err
	}
	f.state = Success
	f.result = res
	f.has = true
	f.lastErr = nil
	return res, nil
}

// Reset returns the flow to Idle and forgets the result.
func (f *Flow[R]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero R
	f.state = Idle
	f.result = zero
	f.has = false
	f.lastErr = nil
}
