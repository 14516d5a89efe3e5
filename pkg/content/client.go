// Package content talks to the document store's REST surface. The store is
// an external collaborator: this client only shapes requests and decodes
// responses, it owns no persistence or access-control semantics.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

const defaultTimeout = 15 * time.Second

// Document is one record as returned by the API. Field values keep their
// decoded JSON shapes; the form pipeline coerces them per kind.
type Document = map[string]any

// ListResult is the envelope returned by collection listings.
type ListResult struct {
	Docs       []Document `json:"docs"`
	TotalDocs  int        `json:"totalDocs"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// ListParams narrows a collection listing.
type ListParams struct {
	Limit int
	Page  int
	Sort  string
}

// Client issues document API calls. Construct with New; the zero value is
// not usable.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for the API root, e.g. "https://cms.example.com/api".
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("content: base URL is required")
	}
	client := &Client{
		baseURL: trimmed,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Schema fetches the field schema for a collection (`?schema=true`).
func (c *Client) Schema(ctx context.Context, collection, locale string) (schema.Document, error) {
	query := url.Values{"schema": []string{"true"}}
	body, err := c.get(ctx, c.collectionURL(collection, "", locale, query))
	if err != nil {
		return schema.Document{}, fmt.Errorf("content: schema for %q: %w", collection, err)
	}
	doc, err := schema.Decode(body)
	if err != nil {
		return schema.Document{}, err
	}
	if doc.Slug == "" {
		doc.Slug = collection
	}
	return doc, nil
}

// List fetches documents from a collection.
func (c *Client) List(ctx context.Context, collection, locale string, params ListParams) (ListResult, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", fmt.Sprint(params.Limit))
	}
	if params.Page > 0 {
		query.Set("page", fmt.Sprint(params.Page))
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}

	body, err := c.get(ctx, c.collectionURL(collection, "", locale, query))
	if err != nil {
		return ListResult{}, fmt.Errorf("content: list %q: %w", collection, err)
	}
	var result ListResult
	if err := json.Unmarshal(body, &result); err != nil {
		return ListResult{}, fmt.Errorf("content: decode listing for %q: %w", collection, err)
	}
	return result, nil
}

// Get fetches a single document by id.
func (c *Client) Get(ctx context.Context, collection, id, locale string) (Document, error) {
	body, err := c.get(ctx, c.collectionURL(collection, id, locale, nil))
	if err != nil {
		return nil, fmt.Errorf("content: get %s/%s: %w", collection, id, err)
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("content: decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Create POSTs a new document and returns the stored result.
func (c *Client) Create(ctx context.Context, collection, locale string, payload map[string]any) (Document, error) {
	return c.write(ctx, http.MethodPost, c.collectionURL(collection, "", locale, nil), payload)
}

// Update PATCHes an existing document. Updates are last-write-wins: the API
// carries no version or etag check, so concurrent editors overwrite each
// other silently.
func (c *Client) Update(ctx context.Context, collection, id, locale string, payload map[string]any) (Document, error) {
	return c.write(ctx, http.MethodPatch, c.collectionURL(collection, id, locale, nil), payload)
}

func (c *Client) write(ctx context.Context, method, target string, payload map[string]any) (Document, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("content: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("content: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var doc Document
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("content: decode write response: %w", err)
		}
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		// Cancellation is the caller's decision, not a transport failure.
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		c.logger.Warn("document api request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("document api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", time.Since(started)))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, newAPIError(res.StatusCode, body)
	}
	return body, nil
}

func (c *Client) collectionURL(collection, id, locale string, query url.Values) string {
	var builder strings.Builder
	builder.WriteString(c.baseURL)
	builder.WriteByte('/')
	builder.WriteString(url.PathEscape(collection))
	if id != "" {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(id))
	}
	if query == nil {
		query = url.Values{}
	}
	if locale != "" {
		query.Set("locale", locale)
	}
	if encoded := query.Encode(); encoded != "" {
		builder.WriteByte('?')
		builder.WriteString(encoded)
	}
	return builder.String()
}
