// Package rest implements the entity store against the remote finances
// backend: a fixed REST-like API with JSON bodies, numeric IDs, and ISO
// date strings. The client maps HTTP failures onto store error categories
// and never retries; retry policy belongs to callers, not here.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finances/internal/store"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure interface conformance
var _ store.EntityStore = (*Client)(nil)

// NewClient creates a store client for the backend at baseURL,
// e.g. "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("missing store base URL")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// do issues one request and decodes the JSON response into out (skipped
// when out is nil). Non-2xx statuses become categorized store errors.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return store.Transport(op, fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return store.Transport(op, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return store.Transport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return store.Transport(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) statusError(op string, resp *http.Response) error {
	// The backend reports failures as plain-text or JSON messages; keep
	// a bounded excerpt for diagnostics.
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return store.NotFound(op, err)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return store.Invalid(op, err)
	default:
		return store.Transport(op, err)
	}
}
