// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"io"
	"strings"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/pkg/types"
)

const (
	protocolOptimizePath  = "/api/protocol/optimize"
	protocolUploadPath    = "/api/protocol/upload-and-optimize"
	endpointRecommendPath = "/api/endpoint/recommend"
)

// OptimizeProtocol submits a protocol summary for optimization.
func (c *Client) OptimizeProtocol(ctx context.Context, req types.ProtocolOptimizeRequest) (types.OptimizedProtocol, error) {
	var missing []string
	if strings.TrimSpace(req.Summary) == "" {
		missing = append(missing, "protocol summary")
	}
	if strings.TrimSpace(req.Indication) == "" {
		missing = append(missing, "indication")
	}
	if len(missing) > 0 {
		return types.OptimizedProtocol{}, apperr.Missing(missing...)
	}

	var out types.OptimizedProtocol
	if err := c.gw.PostJSON(ctx, protocolOptimizePath, req, &out); err != nil {
		return types.OptimizedProtocol{}, err
	}
	return out, nil
}

// UploadAndOptimize uploads a protocol document and optimizes it.
func (c *Client) UploadAndOptimize(ctx context.Context, filename string, r io.Reader, indication, phase string) (types.OptimizedProtocol, error) {
	if strings.TrimSpace(filename) == "" {
		return types.OptimizedProtocol{}, apperr.Missing("file")
	}
	fields := map[string]string{}
	if indication != "" {
		fields["indication"] = indication
	}
	if phase != "" {
		fields["phase"] = phase
	}

	var out types.OptimizedProtocol
	if err := c.gw.PostMultipart(ctx, protocolUploadPath, fields, "file", filename, r, &out); err != nil {
		return types.OptimizedProtocol{}, err
	}
	return out, nil
}

// RecommendEndpoints asks for endpoint suggestions for an indication.
func (c *Client) RecommendEndpoints(ctx context.Context, req types.EndpointRecommendRequest) ([]types.EndpointSuggestion, error) {
	if strings.TrimSpace(req.Indication) == "" {
		return nil, apperr.Missing("indication")
	}
	return postList[types.EndpointSuggestion](ctx, c, endpointRecommendPath, req)
}
