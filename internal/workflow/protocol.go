// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"io"
	"strings"

	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/internal/submit"
	"github.com/pdiddy/regdesk/pkg/types"
)

// Protocol form fields.
const (
	FieldProtocolSummary = "protocol summary"
	FieldIndication      = "indication"
	FieldPhase           = "phase"
	FieldFile            = "file"
)

// Protocol drives protocol optimization, either from a typed summary or
// from an uploaded document. Both paths share the last result.
type Protocol struct {
	backend Backend

	Optimize *submit.Flow[types.OptimizedProtocol]
	Upload   *submit.Flow[types.OptimizedProtocol]
}

// NewProtocol returns an empty protocol workflow.
func NewProtocol(b Backend, n notify.Notifier) *Protocol {
	n = notifierOrDiscard(n)
	return &Protocol{
		backend:  b,
		Optimize: submit.NewFlow[types.OptimizedProtocol]("optimize protocol", submit.NewForm(FieldProtocolSummary, FieldIndication), n),
		Upload:   submit.NewFlow[types.OptimizedProtocol]("upload protocol", submit.NewForm(FieldFile), n),
	}
}

// Set assigns a form field on both flows so either path sees it.
func (w *Protocol) Set(field, value string) {
	w.Optimize.Form().Set(field, value)
	w.Upload.Form().Set(field, value)
}

// OptimizeSummary submits the typed summary.
func (w *Protocol) OptimizeSummary(ctx context.Context) (types.OptimizedProtocol, error) {
	form := w.Optimize.Form()
	return w.Optimize.Submit(ctx, func(ctx context.Context) (types.OptimizedProtocol, error) {
		return w.backend.OptimizeProtocol(ctx, types.ProtocolOptimizeRequest{
			Summary:    strings.TrimSpace(form.Get(FieldProtocolSummary)),
			Indication: strings.TrimSpace(form.Get(FieldIndication)),
			Phase:      strings.TrimSpace(form.Get(FieldPhase)),
		})
	})
}

// UploadDocument uploads r under filename and optimizes it.
func (w *Protocol) UploadDocument(ctx context.Context, filename string, r io.Reader) (types.OptimizedProtocol, error) {
	form := w.Upload.Form()
	form.Set(FieldFile, filename)
	return w.Upload.Submit(ctx, func(ctx context.Context) (types.OptimizedProtocol, error) {
		return w.backend.UploadAndOptimize(ctx, filename, r,
			strings.TrimSpace(form.Get(FieldIndication)), strings.TrimSpace(form.Get(FieldPhase)))
	})
}
