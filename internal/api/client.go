// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api is the typed client for the regulatory backend. Each file
// covers one backend area; every call goes through the fetch gateway, so
// errors arrive already classified.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/pdiddy/regdesk/internal/apperr"
)

// Gateway is the subset of gateway.Client the API needs.
type Gateway interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
	PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, r io.Reader, out any) error
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
	URL(path string) string
}

// Client exposes the backend endpoints.
type Client struct {
	gw     Gateway
	fdaKey string
}

// Option customizes a Client.
type Option func(*Client)

// WithOpenFDAKey forwards key to the backend's openFDA proxy on event
// searches.
func WithOpenFDAKey(key string) Option {
	return func(c *Client) { c.fdaKey = key }
}

// New returns a Client that sends requests through gw.
func New(gw Gateway, opts ...Option) *Client {
	c := &Client{gw: gw}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listEnvelope is the object form some endpoints wrap lists in.
type listEnvelope struct {
	Results json.RawMessage `json:"results"`
	Items   json.RawMessage `json:"items"`
	Data    json.RawMessage `json:"data"`
}

// decodeList accepts either a bare JSON array or an object carrying the
// array under "results", "items" or "data".
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return out, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding list envelope: %w", err)
	}
	for _, inner := range []json.RawMessage{env.Results, env.Items, env.Data} {
		if len(inner) > 0 && string(inner) != "null" {
			if err := json.Unmarshal(inner, &out); err != nil {
				return nil, fmt.Errorf("decoding list: %w", err)
			}
			return out, nil
		}
	}
	return out, nil
}

// getList GETs path and decodes a list of T. A body that is not a list is
// reported as a ServerError.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.gw.GetJSON(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return listFrom[T](raw, "GET", path)
}

// postList POSTs body to path and decodes a list of T.
func postList[T any](ctx context.Context, c *Client, path string, body any) ([]T, error) {
	var raw json.RawMessage
	if err := c.gw.PostJSON(ctx, path, body, &raw); err != nil {
		return nil, err
	}
	return listFrom[T](raw, "POST", path)
}

func listFrom[T any](raw json.RawMessage, method, path string) ([]T, error) {
	out, err := decodeList[T](raw)
	if err != nil {
		return nil, &apperr.ServerError{Method: method, Endpoint: path, StatusCode: 200, Message: err.Error()}
	}
	return out, nil
}
