// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/pkg/types"
)

const (
	reportsPath  = "/api/reports"
	csrListPath  = "/api/csr/list"
	csrCountPath = "/api/csr/count"
)

// ListReports returns the report library.
func (c *Client) ListReports(ctx context.Context) ([]types.Report, error) {
	return getList[types.Report](ctx, c, reportsPath, nil)
}

// CSRFilter narrows a CSR library listing. The zero value lists everything.
type CSRFilter struct {
	Query   types.SearchQuery
	Sponsor string
	Limit   int
	Offset  int
}

func (f CSRFilter) values() url.Values {
	v := url.Values{}
	if t := f.Query.Terms(); t != "" {
		v.Set("query", t)
	}
	if f.Query.Indication != "" {
		v.Set("indication", f.Query.Indication)
	}
	if f.Query.Phase != "" {
		v.Set("phase", f.Query.Phase)
	}
	if f.Sponsor != "" {
		v.Set("sponsor", f.Sponsor)
	}
	if f.Limit > 0 {
		v.Set("limit", fmt.Sprint(f.Limit))
	}
	if f.Offset > 0 {
		v.Set("offset", fmt.Sprint(f.Offset))
	}
	return v
}

// ListCSRs lists CSRs matching the filter.
func (c *Client) ListCSRs(ctx context.Context, f CSRFilter) ([]types.CSR, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, apperr.Invalid("limit and offset must not be negative", "limit", "offset")
	}
	return getList[types.CSR](ctx, c, csrListPath, f.values())
}

// CountCSRs returns the number of CSRs in the library.
func (c *Client) CountCSRs(ctx context.Context) (int, error) {
	var out struct {
		Count *int `json:"count"`
		Total *int `json:"total"`
	}
	if err := c.gw.GetJSON(ctx, csrCountPath, nil, &out); err != nil {
		return 0, err
	}
	switch {
	case out.Count != nil:
		return *out.Count, nil
	case out.Total != nil:
		return *out.Total, nil
	default:
		return 0, &apperr.ServerError{Method: "GET", Endpoint: csrCountPath, StatusCode: 200, Message: "response has no count"}
	}
}

// trimID rejects blank ids.
func trimID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperr.Missing(field)
	}
	return id, nil
}
