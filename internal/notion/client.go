// Package notion wraps the hosted database backend's REST API.
//
// The tracker owns no storage of its own — every durable record is a page
// in a backend database, and this client is the only way in or out. The
// surface is deliberately small: query with a single-property filter
// (plus cursor pagination), create a page, patch page properties, and
// append paragraph blocks to a page's content. That is everything the
// workshop flows need.
//
// RATE LIMITING:
// The hosted API enforces an average of ~3 requests per second per
// integration and answers 429 beyond that. Rather than handle 429s
// reactively, every call waits on a client-side token bucket
// (golang.org/x/time/rate) sized to stay under the limit. The limiter is
// shared across goroutines, so concurrent request handlers and deferred
// webhook tasks all drain the same bucket.
package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production API endpoint. Tests point the
	// client at an httptest server instead.
	DefaultBaseURL = "https://api.notion.com"

	// apiVersion is pinned: the backend versions its wire format per
	// integration through this header, not through the URL.
	apiVersion = "2022-06-28"

	requestsPerSecond = 3
)

// Client is a minimal backend API client. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option customises a Client. Used mainly by tests.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a Client authenticated with the given integration key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Query runs one filtered query against a database and returns a single
// page of results. startCursor is "" for the first page.
func (c *Client) Query(ctx context.Context, databaseID string, filter *Filter, startCursor string) (*QueryResponse, error) {
	req := queryRequest{Filter: filter, StartCursor: startCursor}
	var resp QueryResponse
	path := fmt.Sprintf("/v1/databases/%s/query", databaseID)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("querying database %s: %w", databaseID, err)
	}
	return &resp, nil
}

// QueryAll runs a query and follows continuation cursors until the
// backend reports no more results. The backend paginates at 100 results,
// so any "load the whole database" caller must use this, not Query.
func (c *Client) QueryAll(ctx context.Context, databaseID string, filter *Filter) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		resp, err := c.Query(ctx, databaseID, filter, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// CreatePage creates one record in a database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property) (*Page, error) {
	req := createPageRequest{
		Parent:     Parent{Type: "database_id", DatabaseID: databaseID},
		Properties: properties,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return nil, fmt.Errorf("creating page in database %s: %w", databaseID, err)
	}
	return &page, nil
}

// UpdatePage patches properties on an existing page. Only the supplied
// properties change; the backend has no compare-and-swap, so concurrent
// patches to the same page are last-writer-wins per property.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) (*Page, error) {
	req := updatePageRequest{Properties: properties}
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, req, &page); err != nil {
		return nil, fmt.Errorf("updating page %s: %w", pageID, err)
	}
	return &page, nil
}

// RetrievePage fetches one page by its backend identity.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("retrieving page %s: %w", pageID, err)
	}
	return &page, nil
}

// AppendParagraph appends one paragraph block to a page's content. The
// workshop uses page content as an append-only activity log.
func (c *Client) AppendParagraph(ctx context.Context, pageID, text string) error {
	req := appendBlocksRequest{
		Children: []Block{{
			Object: "block",
			Type:   "paragraph",
			Paragraph: &ParagraphBody{
				RichText: []RichText{{Type: "text", Text: &TextBody{Content: text}}},
			},
		}},
	}
	path := fmt.Sprintf("/v1/blocks/%s/children", pageID)
	if err := c.do(ctx, http.MethodPatch, path, req, nil); err != nil {
		return fmt.Errorf("appending block to page %s: %w", pageID, err)
	}
	return nil
}

// do performs one API call: wait for a limiter token, send, decode.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Best effort: the error body is itself JSON with code/message.
		var wire struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			if json.Unmarshal(raw, &wire) == nil {
				apiErr.Code = wire.Code
				apiErr.Message = wire.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
