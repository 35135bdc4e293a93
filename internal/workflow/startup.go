// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"sync"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/notify"
	"github.com/pdiddy/regdesk/pkg/types"
)

// Startup tracks one site's startup checklist.
type Startup struct {
	backend  Backend
	notifier notify.Notifier

	mu     sync.Mutex
	site   types.StartupSite
	loaded bool
}

// NewStartup returns a checklist with no site loaded.
func NewStartup(b Backend, n notify.Notifier) *Startup {
	return &Startup{backend: b, notifier: notifierOrDiscard(n)}
}

// Load fetches the site. A failed load keeps the previously loaded site.
func (s *Startup) Load(ctx context.Context, siteID string) (types.StartupSite, error) {
	site, err := s.backend.StartupSite(ctx, siteID)
	if err != nil {
		return types.StartupSite{}, failed(s.notifier, "load site", err)
	}
	s.mu.Lock()
	s.site = site
	s.loaded = true
	s.mu.Unlock()
	return s.Site(), nil
}

// Site returns a copy of the loaded site.
func (s *Startup) Site() types.StartupSite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.site
	out.Items = append([]types.ChecklistItem(nil), s.site.Items...)
	return out
}

// Complete marks itemID done. The loaded site changes only when the
// backend confirms; a failure leaves it exactly as it was.
func (s *Startup) Complete(ctx context.Context, itemID string) (types.ChecklistItem, error) {
	s.mu.Lock()
	loaded := s.loaded
	idx := s.indexLocked(itemID)
	s.mu.Unlock()
	if loaded && idx < 0 {
		return types.ChecklistItem{}, failed(s.notifier, "complete item",
			apperr.Invalid("no checklist item "+itemID+" on this site", "item id"))
	}

	item, err := s.backend.CompleteChecklistItem(ctx, itemID)
	if err != nil {
		return types.ChecklistItem{}, failed(s.notifier, "complete item", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(itemID); i >= 0 {
		merged := s.site.Items[i]
		merged.Completed = true
		if item.Title != "" {
			merged.Title = item.Title
		}
		s.site.Items[i] = merged
		item = merged
	}
	s.notifier.Info("complete item", item.Title+" marked complete")
	return item, nil
}

func (s *Startup) indexLocked(itemID string) int {
	for i, it := range s.site.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
