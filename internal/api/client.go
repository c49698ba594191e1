package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a running daemon over its HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a daemon API client. The address is the daemon's
// bind host:port; the token may be empty when the daemon runs without
// authentication.
func NewClient(address, token string) *Client {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return &Client{
		baseURL:    strings.TrimRight(address, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Status fetches the daemon status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Images requests an artwork selection for an item.
func (c *Client) Images(ctx context.Context, req ImageRequest) (*Selection, error) {
	var out Selection
	if err := c.do(ctx, http.MethodPost, "/api/images", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Observe publishes a language fact for later image requests.
func (c *Client) Observe(ctx context.Context, req ObserveRequest) (bool, error) {
	var out ObserveResponse
	if err := c.do(ctx, http.MethodPost, "/api/observed", req, &out); err != nil {
		return false, err
	}
	return out.Accepted, nil
}

// SetEnabled toggles the provider on or off.
func (c *Client) SetEnabled(ctx context.Context, enabled bool) (bool, error) {
	path := "/api/disable"
	if enabled {
		path = "/api/enable"
	}
	var out EnabledResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

// CacheList fetches the persisted language map.
func (c *Client) CacheList(ctx context.Context) (*CacheListResponse, error) {
	var out CacheListResponse
	if err := c.do(ctx, http.MethodGet, "/api/cache", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CacheRemove deletes a single cache entry by key.
func (c *Client) CacheRemove(ctx context.Context, key string) error {
	path := "/api/cache?key=" + url.QueryEscape(strings.TrimSpace(key))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// CacheClear deletes all cache entries and reports how many were removed.
func (c *Client) CacheClear(ctx context.Context) (int, error) {
	var out CacheClearResponse
	if err := c.do(ctx, http.MethodDelete, "/api/cache", nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

// History fetches recorded resolutions. A non-empty cacheKey narrows the
// trail to one item; a positive limit caps the result.
func (c *Client) History(ctx context.Context, cacheKey string, limit int) (*HistoryResponse, error) {
	params := url.Values{}
	if key := strings.TrimSpace(cacheKey); key != "" {
		params.Set("key", key)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/history"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out HistoryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Warm starts a library-wide cache warming run.
func (c *Client) Warm(ctx context.Context) (*WarmResponse, error) {
	var out WarmResponse
	if err := c.do(ctx, http.MethodPost, "/api/warm", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
