// Package api is the JSON transport to the CareLink backend. The backend
// owns the wire format and re-validates every call; this client only shapes
// requests and decodes responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/carelink-his/carelink/internal/platform/httpx"
)

// StatusError carries a non-2xx backend response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// Unwrap maps backend statuses onto the shared sentinels so handlers can
// translate them without inspecting status codes.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return httpx.ErrNotFound
	case http.StatusConflict:
		return httpx.ErrDuplicate
	case http.StatusForbidden:
		return httpx.ErrForbidden
	case http.StatusUnauthorized:
		return httpx.ErrUnauthorized
	default:
		return httpx.ErrUpstream
	}
}

// Client issues JSON requests against a fixed base URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// New constructs a Client. A non-positive timeout falls back to 15s.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// Get issues a GET with the given query string and decodes the response
// into dest. A nil dest discards the body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, dest)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	target := *c.base
	target.Path, _ = url.JoinPath(c.base.Path, path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w: %v", method, path, httpx.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if c.logger != nil {
			c.logger.Warn("backend call failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode))
		}
		return fmt.Errorf("api: %s %s: %w", method, path, &StatusError{Status: resp.StatusCode, Body: string(raw)})
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
