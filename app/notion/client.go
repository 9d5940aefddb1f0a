package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	propName        = "Name"
	propDescription = "Description"
)

// API is the surface the hierarchy engine needs from Notion. Implemented
// by Client; tests substitute fakes.
type API interface {
	GetPage(ctx context.Context, pageID string) (*Page, error)
	GetDatabase(ctx context.Context, databaseID string) (*Database, error)
	GetBlockChildren(ctx context.Context, blockID string) ([]json.RawMessage, error)
	CreateDatabase(ctx context.Context, parentPageID, title string) (*Database, error)
	CreatePage(ctx context.Context, dataSourceID, name, description string) (*Page, error)
	UpdatePageTitle(ctx context.Context, pageID, title string) error
	UpdatePageIcon(ctx context.Context, pageID, emoji string) error
	ArchivePage(ctx context.Context, pageID string) error
}

// Factory builds an API bound to one user's integration token.
type Factory func(token string) API

type Options struct {
	BaseURL    string
	Token      string
	APIVersion string
	HTTPClient *http.Client
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

type Client struct {
	baseURL    string
	token      string
	apiVersion string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.notion.com"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "2025-09-03"
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      opts.Token,
		apiVersion: apiVersion,
		httpClient: httpClient,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
	}
}

func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+pageID, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+databaseID, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

func (c *Client) GetBlockChildren(ctx context.Context, blockID string) ([]json.RawMessage, error) {
	var blocks []json.RawMessage
	cursor := ""
	for {
		path := "/v1/blocks/" + blockID + "/children?page_size=100"
		if cursor != "" {
			// cursors are opaque and may carry reserved characters
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var resp blockChildrenResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) CreateDatabase(ctx context.Context, parentPageID, title string) (*Database, error) {
	body := map[string]any{
		"parent": Parent{Kind: ParentPage, PageID: parentPageID},
		"title":  NewRichText(title),
		"initial_data_source": map[string]any{
			"properties": map[string]any{
				propName:        map[string]any{"title": map[string]any{}},
				propDescription: map[string]any{"rich_text": map[string]any{}},
			},
		},
	}
	var db Database
	if err := c.do(ctx, http.MethodPost, "/v1/databases", body, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

func (c *Client) CreatePage(ctx context.Context, dataSourceID, name, description string) (*Page, error) {
	props := map[string]any{
		propName: map[string]any{"title": NewRichText(name)},
	}
	if description != "" {
		props[propDescription] = map[string]any{"rich_text": NewRichText(description)}
	}
	body := map[string]any{
		"parent":     Parent{Kind: ParentDataSource, DataSourceID: dataSourceID},
		"properties": props,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) UpdatePageTitle(ctx context.Context, pageID, title string) error {
	body := map[string]any{
		"properties": map[string]any{
			propName: map[string]any{"title": NewRichText(title)},
		},
	}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, nil)
}

func (c *Client) UpdatePageIcon(ctx context.Context, pageID, emoji string) error {
	body := map[string]any{
		"icon": map[string]any{"type": "emoji", "emoji": emoji},
	}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, nil)
}

func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	body := map[string]any{"archived": true}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if strings.TrimSpace(c.token) == "" {
		return fmt.Errorf("notion: token is empty")
	}
	var bodyBytes []byte
	if payload != nil {
		var err error
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	url := c.baseURL + path

	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.apiVersion)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return waitErr
				}
				continue
			}
			return err
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return readErr
		}
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			if out == nil {
				return nil
			}
			return json.Unmarshal(respBody, out)
		}

		if (resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)) && attempt < c.maxRetries {
			if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return waitErr
			}
			continue
		}

		var parsed apiError
		message := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Message != "" {
			message = parsed.Message
		}
		if parsed.Code != "" {
			return fmt.Errorf("notion: %s %s failed: status=%d code=%s message=%s", method, path, resp.StatusCode, parsed.Code, message)
		}
		return fmt.Errorf("notion: %s %s failed: status=%d message=%s", method, path, resp.StatusCode, message)
	}
}

func (c *Client) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	if retryAfter := parseRetryAfterSeconds(retryAfterHeader); retryAfter > 0 {
		if retryAfter > c.maxDelay {
			return c.maxDelay
		}
		return retryAfter
	}
	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxDelay {
			return c.maxDelay
		}
	}
	if delay > c.maxDelay {
		return c.maxDelay
	}
	return delay
}

func parseRetryAfterSeconds(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
