// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"strings"
	"sync"

	"github.com/pdiddy/regdesk/internal/async"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/internal/selection"
	"github.com/pdiddy/regdesk/internal/submit"
	"github.com/pdiddy/regdesk/pkg/types"
)

// Device form fields.
const (
	FieldDeviceName     = "device name"
	FieldManufacturer   = "manufacturer"
	FieldIntendedUse    = "intended use"
	FieldClassification = "classification"
	requireLiterature   = "literature"
)

// CER drives Clinical Evaluation Report generation: search literature,
// pick publications (their abstracts are prefetched as they are picked),
// search and pick adverse events, describe the device, then generate.
type CER struct {
	backend  Backend
	notifier notify.Notifier

	Literature *async.Search[types.SearchQuery, types.Publication]
	Abstracts  *selection.Prefetcher[string, types.Abstract]
	Events     *async.Search[string, types.AdverseEvent]
	Generate   *submit.Flow[types.CERReport]

	mu     sync.Mutex
	pmids  *selection.Set[string]
	terms  *selection.Set[string]
	picked map[string]types.Publication
	events map[string]types.AdverseEvent
}

// NewCER returns an empty CER workflow.
func NewCER(b Backend, n notify.Notifier) *CER {
	n = notifierOrDiscard(n)
	w := &CER{
		backend:    b,
		notifier:   n,
		Literature: async.NewSearch[types.SearchQuery, types.Publication](b.SearchPubMed, types.Publication.ItemID),
		Abstracts:  selection.NewPrefetcher[string, types.Abstract](b.AbstractsByPMID),
		Events:     async.NewSearch[string, types.AdverseEvent](b.SearchAdverseEvents, types.AdverseEvent.ItemID),
		pmids:      selection.NewSet[string](),
		terms:      selection.NewSet[string](),
		picked:     make(map[string]types.Publication),
		events:     make(map[string]types.AdverseEvent),
	}
	form := submit.NewForm(FieldDeviceName)
	form.RequireFunc(requireLiterature, func() string {
		if w.SelectedCount() > 0 {
			return "selected"
		}
		return ""
	})
	w.Generate = submit.NewFlow[types.CERReport]("generate CER", form, n)
	return w
}

// SearchLiterature runs a PubMed search. A run superseded by a newer one
// returns apperr.ErrStale and leaves the newer results in place.
func (w *CER) SearchLiterature(ctx context.Context, q types.SearchQuery) ([]types.Publication, error) {
	res, err := w.Literature.Run(ctx, q)
	return res, failed(w.notifier, "literature search", err)
}

// TogglePublication flips pmid in the literature selection and prefetches
// abstracts for any newly selected ids. It reports whether pmid is now
// selected.
func (w *CER) TogglePublication(ctx context.Context, pmid string) (bool, error) {
	w.mu.Lock()
	on := w.pmids.Toggle(pmid)
	if on {
		w.rememberLocked(pmid)
	} else {
		delete(w.picked, pmid)
	}
	w.mu.Unlock()
	return on, w.prefetch(ctx)
}

// SelectPublications adds every pmid to the selection and prefetches the
// abstracts of the new ones in a single request.
func (w *CER) SelectPublications(ctx context.Context, pmids ...string) error {
	w.mu.Lock()
	for _, id := range pmids {
		if id = strings.TrimSpace(id); id != "" && w.pmids.Add(id) {
			w.rememberLocked(id)
		}
	}
	w.mu.Unlock()
	return w.prefetch(ctx)
}

// rememberLocked keeps the search record of a picked publication so it
// survives later searches.
func (w *CER) rememberLocked(pmid string) {
	if p, ok := w.Literature.Find(pmid); ok {
		w.picked[pmid] = p
		return
	}
	w.picked[pmid] = types.Publication{PMID: pmid}
}

func (w *CER) prefetch(ctx context.Context) error {
	_, err := w.Abstracts.Sync(ctx, w.SelectedPMIDs())
	return failed(w.notifier, "fetch abstracts", err)
}

// SelectedPMIDs returns the selected PMIDs in selection order.
func (w *CER) SelectedPMIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pmids.Items()
}

// SelectedCount returns the number of selected publications.
func (w *CER) SelectedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pmids.Len()
}

// ClearPublications empties the literature selection.
func (w *CER) ClearPublications() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pmids.Clear()
	w.picked = make(map[string]types.Publication)
}

// SearchEvents runs an openFDA adverse-event search for product.
func (w *CER) SearchEvents(ctx context.Context, product string) ([]types.AdverseEvent, error) {
	res, err := w.Events.Run(ctx, product)
	return res, failed(w.notifier, "adverse event search", err)
}

// ToggleEvent flips an adverse-event term in the selection.
func (w *CER) ToggleEvent(term string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	on := w.terms.Toggle(term)
	if !on {
		delete(w.events, term)
		return false
	}
	if e, ok := w.Events.Find(term); ok {
		w.events[term] = e
	} else {
		w.events[term] = types.AdverseEvent{Term: term}
	}
	return true
}

// SelectedTerms returns the selected adverse-event terms in order.
func (w *CER) SelectedTerms() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terms.Items()
}

// SetDevice sets one of the device form fields.
func (w *CER) SetDevice(field, value string) {
	w.Generate.Form().Set(field, value)
}

// CanGenerate reports whether generation is available: a device name, at
// least one publication, and nothing in flight.
func (w *CER) CanGenerate() bool {
	return w.Generate.Enabled()
}

// BuildRequest assembles the generation payload from the current form and
// selections. Selected publications carry their prefetched abstracts.
func (w *CER) BuildRequest() types.CERRequest {
	form := w.Generate.Form()
	req := types.CERRequest{
		Device: types.DeviceInfo{
			Name:           strings.TrimSpace(form.Get(FieldDeviceName)),
			Manufacturer:   strings.TrimSpace(form.Get(FieldManufacturer)),
			IntendedUse:    strings.TrimSpace(form.Get(FieldIntendedUse)),
			Classification: strings.TrimSpace(form.Get(FieldClassification)),
		},
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	req.Literature = make([]types.Publication, 0, w.pmids.Len())
	for _, id := range w.pmids.Items() {
		p := w.picked[id]
		if a, ok := w.Abstracts.Get(id); ok {
			p.Abstract = a.Abstract
			if p.Title == "" {
				p.Title = a.Title
			}
		}
		req.Literature = append(req.Literature, p)
	}
	req.AdverseEvents = make([]types.AdverseEvent, 0, w.terms.Len())
	for _, term := range w.terms.Items() {
		req.AdverseEvents = append(req.AdverseEvents, w.events[term])
	}
	return req
}

// GenerateReport submits the current payload. On failure the previous
// report, if any, stays available through Report.
func (w *CER) GenerateReport(ctx context.Context) (types.CERReport, error) {
	return w.Generate.Submit(ctx, func(ctx context.Context) (types.CERReport, error) {
		return w.backend.GenerateCER(ctx, w.BuildRequest())
	})
}

// Report returns the last successfully generated report.
func (w *CER) Report() (types.CERReport, bool) {
	return w.Generate.Result()
}
