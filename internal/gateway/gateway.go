// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway is the single path every backend call takes. It issues
// the HTTP request, attaches the session token and a request id, and maps
// the outcome onto the apperr taxonomy: transport failures become
// NetworkError, non-2xx responses become ServerError, and 2xx bodies are
// decoded as JSON.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pdiddy/regdesk/internal/apperr"
	"github.com/pdiddy/regdesk/internal/httputil"
	"github.com/pdiddy/regdesk/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "regdesk/0.1"
	// maxErrorBody bounds how much of a failed response is kept as the
	// ServerError message.
	maxErrorBody = 4 << 10
)

// TokenSource supplies the bearer token for a request. An empty token means
// the request is sent without Authorization.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client issues requests to the backend.
type Client struct {
	base       *url.URL
	http       *http.Client
	userAgent  string
	tokens     TokenSource
	limiter    *rate.Limiter
	maxRetries int
	log        logrus.FieldLogger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client (tests pass the
// httptest server's client).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource attaches a session token to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a Client from cfg.
func New(cfg types.GatewayConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, apperr.Missing("gateway.base_url")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apperr.Invalid(fmt.Sprintf("base URL %q must be absolute (e.g. https://host)", cfg.BaseURL), "gateway.base_url")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	c := &Client{
		base:       base,
		http:       &http.Client{Timeout: timeout},
		userAgent:  ua,
		maxRetries: cfg.MaxRateLimitRetries,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.log = l
	}
	return c, nil
}

// URL returns the absolute URL for path, for resources the user opens
// directly (e.g. a PDF export).
func (c *Client) URL(path string) string {
	return c.resolve(path, nil)
}

// GetJSON issues a GET with query parameters and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// PostJSON encodes body as JSON, POSTs it, and decodes the response into out.
// A nil body sends an empty JSON object.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	if body == nil {
		body = struct{}{}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, data, "application/json", out)
}

// PostMultipart uploads r as fileField (named filename) together with the
// plain form fields, and decodes the response into out.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("writing form field %s: %w", k, err)
		}
	}
	fw, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, buf.Bytes(), mw.FormDataContentType(), out)
}

// Download streams the body of a GET to w without decoding it. It returns
// the number of bytes written.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	resp, reqID, err := c.send(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := c.check(resp, http.MethodGet, path, reqID); err != nil {
		return 0, err
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &apperr.NetworkError{Method: http.MethodGet, Endpoint: path, Err: err}
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	resp, reqID, err := c.send(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.check(resp, method, path, reqID); err != nil {
		return err
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &apperr.ServerError{
			Method:     method,
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid JSON response: %v", err),
		}
	}
	return nil
}

// send performs the request and returns the raw response. Transport
// failures are returned as NetworkError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*http.Response, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", &apperr.NetworkError{Method: method, Endpoint: path, Err: err}
		}
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), rdr)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("reading session token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	log := c.log.WithFields(logrus.Fields{"method": method, "endpoint": path, "request_id": reqID})
	start := time.Now()

	var resp *http.Response
	if method == http.MethodGet {
		resp, err = httputil.DoWithRetry(ctx, c.http, req, c.maxRetries, log)
	} else {
		resp, err = c.http.Do(req)
	}
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, reqID, &apperr.NetworkError{Method: method, Endpoint: path, Err: err}
	}
	log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)}).Debug("request done")
	return resp, reqID, nil
}

// check converts a non-2xx response to ServerError.
func (c *Client) check(resp *http.Response, method, path, reqID string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &apperr.ServerError{
		Method:     method,
		Endpoint:   path,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(data),
	}
	c.log.WithFields(logrus.Fields{
		"endpoint":   path,
		"status":     resp.StatusCode,
		"request_id": reqID,
	}).Warn("backend returned an error")
	return se
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a JSON
// error body, falling back to the trimmed body text.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	msg := []rune(strings.TrimSpace(string(data)))
	if len(msg) > 200 {
		return string(msg[:197]) + "..."
	}
	return string(msg)
}

// resolve joins path onto the base URL. path is already escaped: callers
// url.PathEscape the ids they splice in.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	raw := strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path, u.RawPath = p, raw
	} else {
		u.Path, u.RawPath = raw, ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
