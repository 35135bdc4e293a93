// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow wires the search, selection and submit building blocks
// into the page flows the CLI drives: CER generation, protocol
// optimization, endpoint recommendation, the CSR library and site startup.
// Each workflow keeps its state in memory for the life of one command.
package workflow

import (
	"context"
	"io"

	"github.com/pdiddy/regdesk/internal/api"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/pkg/types"
)

// Backend is the slice of the typed API client the workflows call.
// *api.Client satisfies it.
type Backend interface {
	SearchPubMed(ctx context.Context, q types.SearchQuery) ([]types.Publication, error)
	AbstractsByPMID(ctx context.Context, pmids []string) (map[string]types.Abstract, error)
	SearchAdverseEvents(ctx context.Context, product string) ([]types.AdverseEvent, error)
	GenerateCER(ctx context.Context, req types.CERRequest) (types.CERReport, error)

	OptimizeProtocol(ctx context.Context, req types.ProtocolOptimizeRequest) (types.OptimizedProtocol, error)
	UploadAndOptimize(ctx context.Context, filename string, r io.Reader, indication, phase string) (types.OptimizedProtocol, error)
	RecommendEndpoints(ctx context.Context, req types.EndpointRecommendRequest) ([]types.EndpointSuggestion, error)

	ListCSRs(ctx context.Context, f api.CSRFilter) ([]types.CSR, error)
	CountCSRs(ctx context.Context) (int, error)
	ListReports(ctx context.Context) ([]types.Report, error)

	StartupSite(ctx context.Context, siteID string) (types.StartupSite, error)
	CompleteChecklistItem(ctx context.Context, itemID string) (types.ChecklistItem, error)
}

var _ Backend = (*api.Client)(nil)

func notifierOrDiscard(n notify.Notifier) notify.Notifier {
	if n == nil {
		return notify.Discard{}
	}
	return n
}

// failed routes err to n and returns it. Stale results are filtered by the
// notifiers themselves.
func failed(n notify.Notifier, op string, err error) error {
	if err != nil {
		n.Error(op, err)
	}
	return err
}
