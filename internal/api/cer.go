// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/pkg/types"
)

const cerGeneratePath = "/api/cer/generate-advanced"

// GenerateCER submits the aggregated CER payload and returns the report.
func (c *Client) GenerateCER(ctx context.Context, req types.CERRequest) (types.CERReport, error) {
	var missing []string
	if strings.TrimSpace(req.Device.Name) == "" {
		missing = append(missing, "device name")
	}
	if len(req.Literature) == 0 {
		missing = append(missing, "literature")
	}
	if len(missing) > 0 {
		return types.CERReport{}, apperr.Missing(missing...)
	}
	if req.AdverseEvents == nil {
		req.AdverseEvents = []types.AdverseEvent{}
	}

	var report types.CERReport
	if err := c.gw.PostJSON(ctx, cerGeneratePath, req, &report); err != nil {
		return types.CERReport{}, err
	}
	return report, nil
}

func cerPDFPath(id string) string {
	return fmt.Sprintf("/api/cer/%s/download-pdf", url.PathEscape(id))
}

// CERPDFURL returns the URL a browser would open to export the report.
func (c *Client) CERPDFURL(id string) string {
	return c.gw.URL(cerPDFPath(id))
}

// DownloadCERPDF streams the PDF export of report id to w.
func (c *Client) DownloadCERPDF(ctx context.Context, id string, w io.Writer) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, apperr.Missing("report id")
	}
	return c.gw.Download(ctx, cerPDFPath(id), w)
}
