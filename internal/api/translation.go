// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"strings"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/pkg/types"
)

// TranslationKind selects one of the /api/translation/* endpoints.
type TranslationKind string

const (
	TranslateText       TranslationKind = "text"
	TranslateCSR        TranslationKind = "csr"
	TranslateRegulatory TranslationKind = "regulatory"
)

const translationLanguagesPath = "/api/translation/languages"

// Translate sends req to the endpoint for kind.
func (c *Client) Translate(ctx context.Context, kind TranslationKind, req types.TranslationRequest) (types.Translation, error) {
	var missing []string
	switch kind {
	case TranslateText, TranslateRegulatory:
		if strings.TrimSpace(req.Text) == "" {
			missing = append(missing, "text")
		}
	case TranslateCSR:
		if strings.TrimSpace(req.CSRID) == "" {
			missing = append(missing, "csr id")
		}
	default:
		return types.Translation{}, apperr.Invalid("unknown translation kind "+string(kind), "kind")
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		missing = append(missing, "target language")
	}
	if len(missing) > 0 {
		return types.Translation{}, apperr.Missing(missing...)
	}

	var out types.Translation
	if err := c.gw.PostJSON(ctx, "/api/translation/"+string(kind), req, &out); err != nil {
		return types.Translation{}, err
	}
	return out, nil
}

// TranslationLanguages lists the languages the engine supports.
func (c *Client) TranslationLanguages(ctx context.Context) ([]types.Language, error) {
	return getList[types.Language](ctx, c, translationLanguagesPath, nil)
}
