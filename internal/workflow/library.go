// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"

	"github.com/pdiddy/regdesk/internal/api"
	"github.com/pdiddy/regdesk/internal/async"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/pkg/types"
)

// CSRLibrary browses the CSR library. Listings are latest-wins: typing a
// new filter while an older one is loading discards the older response.
type CSRLibrary struct {
	backend  Backend
	notifier notify.Notifier

	Search *async.Search[api.CSRFilter, types.CSR]
}

// NewCSRLibrary returns a library browser.
func NewCSRLibrary(b Backend, n notify.Notifier) *CSRLibrary {
	return &CSRLibrary{
		backend:  b,
		notifier: notifierOrDiscard(n),
		Search:   async.NewSearch[api.CSRFilter, types.CSR](b.ListCSRs, types.CSR.ItemID),
	}
}

// List runs a listing for f.
func (l *CSRLibrary) List(ctx context.Context, f api.CSRFilter) ([]types.CSR, error) {
	res, err := l.Search.Run(ctx, f)
	return res, failed(l.notifier, "list CSRs", err)
}

// Count returns the library size.
func (l *CSRLibrary) Count(ctx context.Context) (int, error) {
	n, err := l.backend.CountCSRs(ctx)
	return n, failed(l.notifier, "count CSRs", err)
}

// Reports lists generated reports.
func (l *CSRLibrary) Reports(ctx context.Context) ([]types.Report, error) {
	res, err := l.backend.ListReports(ctx)
	return res, failed(l.notifier, "list reports", err)
}
