// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"stale", ErrStale, KindStale},
		{"wrapped stale", fmt.Errorf("search: %w", ErrStale), KindStale},
		{"validation", Missing("device name"), KindValidation},
		{"submitting", ErrSubmitting, KindValidation},
		{"wrapped submitting", fmt.Errorf("generate CER: %w", ErrSubmitting), KindValidation},
		{"server", &ServerError{StatusCode: 500}, KindServer},
		{"wrapped server", fmt.Errorf("generating: %w", &ServerError{StatusCode: 502}), KindServer},
		{"network", &NetworkError{Err: errors.New("refused")}, KindNetwork},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Empty(t, UserMessage(ErrStale))
	assert.Equal(t, "Please fill in: device name, literature", UserMessage(Missing("device name", "literature")))
	assert.Contains(t, UserMessage(&ServerError{StatusCode: 401}), "regdesk login")
	assert.Contains(t, UserMessage(&ServerError{StatusCode: 404}), "not found")
	assert.Contains(t, UserMessage(&ServerError{StatusCode: 500, Message: "generator down"}), "generator down")
	assert.Contains(t, UserMessage(&NetworkError{Err: errors.New("dial")}), "Could not reach")
	assert.Equal(t, "A submission is already in progress. Wait for it to finish.", UserMessage(ErrSubmitting))
}

func TestErrorStrings(t *testing.T) {
	se := &ServerError{Method: "POST", Endpoint: "/api/cer/generate-advanced", StatusCode: 500, Message: "oops"}
	assert.Equal(t, "server error: POST /api/cer/generate-advanced returned HTTP 500: oops", se.Error())

	inner := errors.New("connection refused")
	ne := &NetworkError{Method: "GET", Endpoint: "/api/csr/count", Err: inner}
	assert.ErrorIs(t, ne, inner)

	ve := Invalid("at least one literature selection is required", "literature")
	assert.Equal(t, "validation error: at least one literature selection is required (literature)", ve.Error())
}
