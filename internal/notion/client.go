// ABOUTME: Notion REST client for databases, data sources and pages
// ABOUTME: Bearer auth, versioned requests, pagination and opt-in retries
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/util"
)

const (
	opCreatePage = "create_page"

	// DefaultBaseURL is the public Notion API endpoint
	DefaultBaseURL = "https://api.notion.com"
	// DefaultVersion is the API version that exposes data sources
	DefaultVersion = "2025-09-03"

	queryPageSize = 100
)

// ClientConfig holds configuration for the Notion client
type ClientConfig struct {
	Token      string
	BaseURL    string
	Version    string
	Timeout    time.Duration // 0 disables the client timeout
	MaxRetries int           // 0 sends every request exactly once
	RetryDelay time.Duration
	HTTPClient *http.Client
	Observer   Observer
}

// DefaultConfig returns the default client configuration
func DefaultConfig(token string) *ClientConfig {
	return &ClientConfig{
		Token:      token,
		BaseURL:    DefaultBaseURL,
		Version:    DefaultVersion,
		RetryDelay: time.Second,
	}
}

// Client talks to the Notion API with a single integration token
type Client struct {
	http       *http.Client
	token      string
	baseURL    string
	version    string
	maxRetries int
	retryDelay time.Duration
	observer   Observer
}

// NewClient creates a client with the default configuration
func NewClient(token string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(token))
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	var observer Observer = NoopObserver{}
	if cfg.Observer != nil {
		observer = cfg.Observer
	}

	return &Client{
		http:       httpClient,
		token:      cfg.Token,
		baseURL:    baseURL,
		version:    version,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		observer:   observer,
	}, nil
}

// RetrieveDatabase fetches a database and its data source references
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	path := "/v1/databases/" + url.PathEscape(databaseID)
	if err := c.do(ctx, "retrieve_database", http.MethodGet, path, nil, &db); err != nil {
		return nil, fmt.Errorf("retrieving database %s: %w", databaseID, err)
	}
	return &db, nil
}

// QueryDataSource returns every page of the data source matching filter, in
// the order the API returns them, following pagination cursors
func (c *Client) QueryDataSource(ctx context.Context, dataSourceID string, filter *Filter) ([]Page, error) {
	path := "/v1/data_sources/" + url.PathEscape(dataSourceID) + "/query"
	req := queryRequest{Filter: filter, PageSize: queryPageSize}

	var pages []Page
	for {
		var resp queryResponse
		if err := c.do(ctx, "query_data_source", http.MethodPost, path, req, &resp); err != nil {
			return nil, fmt.Errorf("querying data source %s: %w", dataSourceID, err)
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		req.StartCursor = *resp.NextCursor
	}
	return pages, nil
}

// CreatePage creates a page under a data source
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	var page Page
	if err := c.do(ctx, opCreatePage, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return nil, fmt.Errorf("creating page in %s: %w", req.Parent.DataSourceID, err)
	}
	return &page, nil
}

// UpdatePage overwrites the given properties of a page
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) (*Page, error) {
	var page Page
	path := "/v1/pages/" + url.PathEscape(pageID)
	body := updatePageRequest{Properties: properties}
	if err := c.do(ctx, "update_page", http.MethodPatch, path, body, &page); err != nil {
		return nil, fmt.Errorf("updating page %s: %w", pageID, err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			var retryAfter time.Duration
			var apiErr *APIError
			if errors.As(lastErr, &apiErr) {
				retryAfter = apiErr.RetryAfter
			}
			if err := sleep(ctx, util.RetryDelay(c.retryDelay, attempt, retryAfter)); err != nil {
				return err
			}
		}

		start := time.Now()
		status, err := c.send(ctx, method, path, payload, out)
		c.observer.OnCall(CallEvent{
			Operation: op,
			Status:    status,
			Attempt:   attempt + 1,
			Duration:  time.Since(start),
			Err:       err,
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(op, status, err) {
			break
		}
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeAPIError(resp, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func decodeAPIError(resp *http.Response, body []byte) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	apiErr.Status = resp.StatusCode
	apiErr.RetryAfter = util.ParseRetryAfter(resp.Header.Get("Retry-After"))
	return apiErr
}

// retryable treats transport failures (no status) and retryable API errors
// as transient. A response that arrived but failed to decode is not retried.
// Page creation is not idempotent: a timeout or 5xx may follow a successful
// create, so it is only retried on 429, which Notion rejects unprocessed.
func retryable(op string, status int, err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if op == opCreatePage {
			return apiErr.Status == http.StatusTooManyRequests
		}
		return apiErr.Retryable()
	}
	if op == opCreatePage {
		return false
	}
	if status != 0 {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
