// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/pkg/types"
)

const (
	pubmedSearchPath    = "/api/pubmed/search"
	pubmedAbstractsPath = "/api/pubmed/abstracts"
)

// AbstractsRequest is the batch abstract payload. It carries exactly the
// PMIDs asked for, in order.
type AbstractsRequest struct {
	PMIDs []string `json:"pmids"`
}

// SearchPubMed runs a literature search through the backend's PubMed proxy.
func (c *Client) SearchPubMed(ctx context.Context, q types.SearchQuery) ([]types.Publication, error) {
	if q.IsEmpty() {
		return nil, apperr.Missing("query")
	}
	params := url.Values{"query": {q.Terms()}}
	return getList[types.Publication](ctx, c, pubmedSearchPath, params)
}

// FetchAbstracts loads abstracts for pmids in one POST. Blank ids are
// dropped; an empty list makes no request.
func (c *Client) FetchAbstracts(ctx context.Context, pmids []string) ([]types.Abstract, error) {
	req := AbstractsRequest{PMIDs: make([]string, 0, len(pmids))}
	for _, id := range pmids {
		if id = strings.TrimSpace(id); id != "" {
			req.PMIDs = append(req.PMIDs, id)
		}
	}
	if len(req.PMIDs) == 0 {
		return []types.Abstract{}, nil
	}
	return postList[types.Abstract](ctx, c, pubmedAbstractsPath, req)
}

// AbstractsByPMID adapts FetchAbstracts to a keyed batch fetch, the shape
// a selection prefetcher consumes.
func (c *Client) AbstractsByPMID(ctx context.Context, pmids []string) (map[string]types.Abstract, error) {
	list, err := c.FetchAbstracts(ctx, pmids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.Abstract, len(list))
	for _, a := range list {
		out[a.PMID] = a
	}
	return out, nil
}
