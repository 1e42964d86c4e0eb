// Package backend is the HTTP client for the search service. The service is
// a black box: this package only speaks its wire contract and reports its
// errors; it never retries or reranks.
package backend

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

	"github.com/pajuhan/tezyab/internal/models"
)

const defaultTimeout = 30 * time.Second

// ErrUnavailable wraps transport-level failures reaching the backend.
var ErrUnavailable = errors.New("search backend unavailable")

// Client talks to the search backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the backend at baseURL. A non-positive
// timeout falls back to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Search runs POST /api/search. The request is validated and normalized
// before it goes out; a backend error body comes back as a single error.
func (c *Client) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	var resp models.SearchResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Models runs GET /api/models and returns the selectable cross-encoders.
func (c *Client) Models(ctx context.Context) (*models.ModelsResponse, error) {
	var resp models.ModelsResponse
	if err := c.get(ctx, "/api/models", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Schema runs GET /api/schema and returns the backend's document columns.
func (c *Client) Schema(ctx context.Context) (*models.SchemaResponse, error) {
	var resp models.SchemaResponse
	if err := c.get(ctx, "/api/schema", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health runs GET /api/health and returns nil when the backend answers 200.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", &struct {
		Status string `json:"status"`
	}{})
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx backend response into a single error, using the
// backend's {"error": ...} body when it has one.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("backend: %s (status %d)", apiErr.Error, resp.StatusCode)
	}
	return fmt.Errorf("backend returned status %d", resp.StatusCode)
}
