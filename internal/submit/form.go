// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submit implements the generate/submit flow shared by every
// workflow: Idle, Submitting, then Success or Failure.
package submit

import (
	"strings"
	"sync"

	"github.com/pdiddy/regdesk/internal/apperr"
)

// Requirement is one condition the form must meet before submission.
// Value reports the current value; the requirement is met when it is
// non-empty after trimming.
type Requirement struct {
	Name  string
	Value func() string
}

// Form tracks named fields and the requirements for submitting them.
// Fields stay editable at all times, including while a submission runs.
type Form struct {
	mu     sync.RWMutex
	fields map[string]string
	order  []string
	reqs   []Requirement
}

// NewForm returns a Form whose listed fields are required.
func NewForm(required ...string) *Form {
	f := &Form{fields: make(map[string]string)}
	for _, name := range required {
		f.Require(name)
	}
	return f
}

// Require marks field name as required.
func (f *Form) Require(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.fields[name]; !ok {
		f.fields[name] = ""
		f.order = append(f.order, name)
	}
	f.reqs = append(f.reqs, Requirement{Name: name, Value: func() string { return f.getLocked(name) }})
}

// RequireFunc adds a computed requirement, e.g. "at least one literature
// selection", expressed as a non-empty string when satisfied.
func (f *Form) RequireFunc(name string, value func() string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, Requirement{Name: name, Value: value})
}

// Set assigns a field value.
func (f *Form) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.fields[name]; !ok {
		f.order = append(f.order, name)
	}
	f.fields[name] = value
}

// Get returns a field value.
func (f *Form) Get(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fields[name]
}

// getLocked reads a field without taking the lock; Missing holds it.
func (f *Form) getLocked(name string) string {
	return f.fields[name]
}

// Values returns a copy of all fields.
func (f *Form) Values() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

// Missing returns the names of unmet requirements in declaration order.
func (f *Form) Missing() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var missing []string
	for _, r := range f.reqs {
		if strings.TrimSpace(r.Value()) == "" {
			missing = append(missing, r.Name)
		}
	}
	return missing
}

// CanSubmit reports whether every requirement is met.
func (f *Form) CanSubmit() bool {
	return len(f.Missing()) == 0
}

// Validate returns a ValidationError naming unmet requirements, or nil.
func (f *Form) Validate() error {
	if missing := f.Missing(); len(missing) > 0 {
		return apperr.Missing(missing...)
	}
	return nil
}
