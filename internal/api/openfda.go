// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/pkg/types"
)

const openFDAEventsPath = "/api/openfda/events"

// SearchAdverseEvents returns openFDA adverse-event counts for a drug or
// device name.
func (c *Client) SearchAdverseEvents(ctx context.Context, product string) ([]types.AdverseEvent, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, apperr.Missing("drug")
	}
	params := url.Values{"drug": {product}}
	if c.fdaKey != "" {
		params.Set("api_key", c.fdaKey)
	}
	return getList[types.AdverseEvent](ctx, c, openFDAEventsPath, params)
}
