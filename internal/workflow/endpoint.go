// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/internal/selection"
	"github.com/pdiddy/regdesk/internal/submit"
	"github.com/pdiddy/regdesk/pkg/types"
)

// FieldCount is the optional number of suggestions to ask for.
const FieldCount = "count"

// Endpoint drives endpoint recommendation: describe the study, ask for
// suggestions, then pick the ones to keep.
type Endpoint struct {
	backend  Backend
	notifier notify.Notifier

	Recommend *submit.Flow[[]types.EndpointSuggestion]

	mu     sync.Mutex
	chosen *selection.Set[string]
}

// NewEndpoint returns an empty endpoint workflow.
func NewEndpoint(b Backend, n notify.Notifier) *Endpoint {
	n = notifierOrDiscard(n)
	return &Endpoint{
		backend:   b,
		notifier:  n,
		Recommend: submit.NewFlow[[]types.EndpointSuggestion]("recommend endpoints", submit.NewForm(FieldIndication), n),
		chosen:    selection.NewSet[string](),
	}
}

// Set assigns a form field.
func (w *Endpoint) Set(field, value string) {
	w.Recommend.Form().Set(field, value)
}

// Suggest asks for recommendations. A new set of suggestions clears the
// previous picks.
func (w *Endpoint) Suggest(ctx context.Context) ([]types.EndpointSuggestion, error) {
	form := w.Recommend.Form()
	req := types.EndpointRecommendRequest{
		Indication: strings.TrimSpace(form.Get(FieldIndication)),
		Phase:      strings.TrimSpace(form.Get(FieldPhase)),
	}
	if raw := strings.TrimSpace(form.Get(FieldCount)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, failed(w.notifier, "recommend endpoints", apperr.Invalid("count must be a non-negative number", FieldCount))
		}
		req.Count = n
	}

	res, err := w.Recommend.Submit(ctx, func(ctx context.Context) ([]types.EndpointSuggestion, error) {
		return w.backend.RecommendEndpoints(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.chosen.Clear()
	w.mu.Unlock()
	return res, nil
}

// Toggle flips a suggestion in the picked set by name.
func (w *Endpoint) Toggle(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chosen.Toggle(name)
}

// Chosen returns the picked suggestions in pick order.
func (w *Endpoint) Chosen() []types.EndpointSuggestion {
	res, _ := w.Recommend.Result()
	w.mu.Lock()
	defer w.mu.Unlock()
	return selection.Pick(w.chosen, res, types.EndpointSuggestion.ItemID)
}
