// Package notion is a minimal Notion REST API client: database queries,
// block listing and conversion of page blocks to Markdown.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tgpaywall/tgpaywall/pkg/logger"
)

// APIVersion is sent as the Notion-Version header.
const APIVersion = "2022-06-28"

const (
	pageSize        = 100
	maxBlockDepth   = 3
	maxResponseSize = 8 << 20
)

// Client is safe for concurrent use. Requests share one rate limiter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit replaces the limiter built from Config.
func WithRateLimit(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a Notion API client paced at cfg.RequestsPerSecond, 3 when unset.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryDatabase returns every non-archived page of a database, following pagination.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	if databaseID == "" {
		return nil, ErrMissingDatabaseID
	}

	var pages []Page
	cursor := ""
	for {
		body := map[string]any{"page_size": pageSize}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var resp listResponse[Page]
		if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", body, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			if !p.Archived {
				pages = append(pages, p)
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// BlockChildren returns the direct children of a block or page, following pagination.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		q := url.Values{"page_size": {fmt.Sprint(pageSize)}}
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}

		var resp listResponse[Block]
		path := "/blocks/" + url.PathEscape(blockID) + "/children?" + q.Encode()
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

// PageBlocks returns the blocks of a page with nested children loaded up
// to a fixed depth.
func (c *Client) PageBlocks(ctx context.Context, pageID string) ([]Block, error) {
	return c.blockTree(ctx, pageID, 0)
}

// PageMarkdown renders a page body as Markdown.
func (c *Client) PageMarkdown(ctx context.Context, pageID string) (string, error) {
	blocks, err := c.PageBlocks(ctx, pageID)
	if err != nil {
		return "", err
	}
	return ToMarkdown(blocks), nil
}

func (c *Client) blockTree(ctx context.Context, id string, depth int) ([]Block, error) {
	blocks, err := c.BlockChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	if depth+1 >= maxBlockDepth {
		return blocks, nil
	}
	for i := range blocks {
		if !blocks[i].HasChildren {
			continue
		}
		children, err := c.blockTree(ctx, blocks[i].ID, depth+1)
		if err != nil {
			return nil, err
		}
		blocks[i].Children = children
	}
	return blocks, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.WarnContext(ctx, "notion api error",
			logger.Component("notion"),
			logger.StatusCode(resp.StatusCode),
			slog.String("code", apiErr.Code),
			slog.String("path", path),
		)
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}
