// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/url"

	"github.com/pdiddy/regdesk/pkg/types"
)

// StartupSite loads a site and its startup checklist.
func (c *Client) StartupSite(ctx context.Context, siteID string) (types.StartupSite, error) {
	id, err := trimID("site id", siteID)
	if err != nil {
		return types.StartupSite{}, err
	}
	var site types.StartupSite
	if err := c.gw.GetJSON(ctx, "/api/startup/site/"+url.PathEscape(id), nil, &site); err != nil {
		return types.StartupSite{}, err
	}
	return site, nil
}

// CompleteChecklistItem marks a checklist item complete and returns the
// updated item.
func (c *Client) CompleteChecklistItem(ctx context.Context, itemID string) (types.ChecklistItem, error) {
	id, err := trimID("item id", itemID)
	if err != nil {
		return types.ChecklistItem{}, err
	}
	var item types.ChecklistItem
	if err := c.gw.PostJSON(ctx, "/api/startup/item/"+url.PathEscape(id)+"/complete", nil, &item); err != nil {
		return types.ChecklistItem{}, err
	}
	if item.ID == "" {
		item.ID = id
		item.Completed = true
	}
	return item, nil
}
