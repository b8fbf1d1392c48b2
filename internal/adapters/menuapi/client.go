// Package menuapi fetches menu items from the remote REST endpoint.
package menuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
)

const maxBodyBytes = 8 << 20

// Client implements ports.MenuFetcher over HTTP.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	tracer     ports.Tracer
	logger     ports.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a Client for the menu endpoint at endpoint.
func NewClient(endpoint string, tracer ports.Tracer, logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		timeout:    domain.DefaultTimeout,
		httpClient: &http.Client{},
		tracer:     tracer,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues one GET request for filter.
func (c *Client) Fetch(ctx context.Context, filter domain.Filter, opts ports.FetchOptions) (ports.FetchResult, error) {
	ctx, span := c.tracer.Start(ctx, "menuapi.get", ports.WithAttribute("key", filter.Key()))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL, err := c.requestURL(filter)
	if err != nil {
		span.RecordError(err)
		return ports.FetchResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		err = zerr.With(errors.Join(domain.ErrNetwork, err), "url", reqURL)
		span.RecordError(err)
		return ports.FetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if opts.NoCache {
		req.Header.Set("Cache-Control", "no-cache")
	}

	c.logger.Debug("GET " + reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(ctx, err, reqURL, c.timeout)
		span.RecordError(err)
		return ports.FetchResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttribute("status", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		err = classifyTransportError(ctx, err, reqURL, c.timeout)
		span.RecordError(err)
		return ports.FetchResult{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = zerr.With(zerr.Wrap(domain.ErrNetwork, "unexpected status"), "status", resp.StatusCode)
		err = zerr.With(err, "url", reqURL)
		span.RecordError(err)
		return ports.FetchResult{}, err
	}

	result, err := decodeBody(body)
	if err != nil {
		err = zerr.With(err, "url", reqURL)
		span.RecordError(err)
		return ports.FetchResult{}, err
	}

	span.SetAttribute("items", len(result.Items))
	if result.Dropped > 0 {
		c.logger.Warn(fmt.Sprintf("dropped %d invalid menu items from %s", result.Dropped, reqURL))
	}
	if result.Total > 0 {
		c.logger.Debug(fmt.Sprintf("menu page %d carries %d of %d items", result.Page, len(result.Items), result.Total))
	}
	return result, nil
}

// requestURL forwards only the category and fields parameters.
func (c *Client) requestURL(filter domain.Filter) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrNetwork, err), "url", c.endpoint)
	}

	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if fields := filter.NormalizedFields(); len(fields) > 0 {
		// Items without an identifier are dropped, so it is always requested.
		if !slices.Contains(fields, domain.IDField) {
			fields = append(fields, domain.IDField)
			slices.Sort(fields)
		}
		q.Set("fields", strings.Join(fields, ","))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func classifyTransportError(ctx context.Context, err error, reqURL string, timeout time.Duration) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return zerr.With(zerr.With(errors.Join(domain.ErrNetworkTimeout, err), "url", reqURL), "timeout", timeout.String())
	}
	return zerr.With(errors.Join(domain.ErrNetwork, err), "url", reqURL)
}

// envelope is the paginated response shape. Older backends used "data".
type envelope struct {
	Items *[]json.RawMessage `json:"items"`
	Data  *[]json.RawMessage `json:"data"`
	Page  int                `json:"page"`
	Total int                `json:"total"`
}

// decodeBody accepts a bare array or an envelope. Items that fail to decode or
// validate are dropped and counted.
func decodeBody(body []byte) (ports.FetchResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ports.FetchResult{}, zerr.Wrap(domain.ErrParse, "empty body")
	}

	var raw []json.RawMessage
	var result ports.FetchResult

	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &raw); err != nil {
			return ports.FetchResult{}, errors.Join(domain.ErrParse, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return ports.FetchResult{}, errors.Join(domain.ErrParse, err)
		}
		switch {
		case env.Items != nil:
			raw = *env.Items
		case env.Data != nil:
			raw = *env.Data
		default:
			return ports.FetchResult{}, zerr.Wrap(domain.ErrParse, "object response has no items")
		}
		result.Page = env.Page
		result.Total = env.Total
	default:
		return ports.FetchResult{}, zerr.Wrap(domain.ErrParse, "response is neither an array nor an object")
	}

	result.Items = make([]domain.MenuItem, 0, len(raw))
	for _, r := range raw {
		var item domain.MenuItem
		if err := json.Unmarshal(r, &item); err != nil {
			result.Dropped++
			continue
		}
		if err := item.Validate(); err != nil {
			result.Dropped++
			continue
		}
		result.Items = append(result.Items, item)
	}
	result.Items = domain.DedupeItems(result.Items)
	return result, nil
}
