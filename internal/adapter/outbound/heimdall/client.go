// Package heimdall is the HTTP client for the Heimdall proxy manager, the
// sibling service that owns user-facing proxy records. The console only
// relays CRUD calls to it.
package heimdall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each Heimdall round trip.
const DefaultTimeout = 10 * time.Second

// Proxy is a proxy record as Heimdall stores it.
type Proxy struct {
	ID         int64  `json:"id,omitempty"`
	Username   string `json:"username"`
	ProxyName  string `json:"proxyName"`
	TargetHost string `json:"targetHost"`
	TargetPort int    `json:"targetPort"`
	Protocol   string `json:"protocol,omitempty"`
}

// StatusError is returned when Heimdall answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("heimdall returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to a Heimdall instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Heimdall client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add registers a new proxy record.
func (c *Client) Add(ctx context.Context, p Proxy) (*Proxy, error) {
	var out Proxy
	if err := c.doRequest(ctx, http.MethodPost, "/add-proxy", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an existing proxy record.
func (c *Client) Update(ctx context.Context, p Proxy) (*Proxy, error) {
	var out Proxy
	if err := c.doRequest(ctx, http.MethodPut, "/update-proxy", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a proxy record by ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/delete-proxy/%d", id)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Get fetches a proxy record by ID.
func (c *Client) Get(ctx context.Context, id int64) (*Proxy, error) {
	var out Proxy
	path := fmt.Sprintf("/read-proxy/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser fetches all proxy records owned by a user.
func (c *Client) ListByUser(ctx context.Context, username string) ([]Proxy, error) {
	var out []Proxy
	path := "/read-proxy-list/" + url.PathEscape(username)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// doRequest performs a JSON round trip against Heimdall.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("heimdall request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &StatusError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
