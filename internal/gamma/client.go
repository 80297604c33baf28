package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"predictlearn/internal/config"
)

// Client is a thin HTTP client for the Polymarket Gamma API. Polymarket
// publishes no official Go SDK, so requests are built by hand and retried
// with exponential backoff on transport errors and 5xx responses.
type Client struct {
	baseURL    string
	userAgent  string
	maxRetries uint
	httpClient *http.Client
}

func NewClient(cfg config.GammaConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout.Duration},
	}
}

// Query holds the list-endpoint parameters the API recognises.
type Query struct {
	Limit  int
	Offset int
	Active *bool
	Closed *bool
	Tag    string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Closed != nil {
		v.Set("closed", strconv.FormatBool(*q.Closed))
	}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	return v
}

// ListMarkets fetches market records matching the query.
func (c *Client) ListMarkets(ctx context.Context, q Query) ([]RawMarket, error) {
	body, err := c.get(ctx, "/markets", q.values())
	if err != nil {
		return nil, fmt.Errorf("listing markets: %w", err)
	}

	var markets []RawMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("decoding markets: %w", err)
	}
	slog.Debug("gamma markets fetched", "count", len(markets))
	return markets, nil
}

// ListEvents fetches event records matching the query.
func (c *Client) ListEvents(ctx context.Context, q Query) ([]RawEvent, error) {
	body, err := c.get(ctx, "/events", q.values())
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var events []RawEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	slog.Debug("gamma events fetched", "count", len(events))
	return events, nil
}

// GetMarket fetches a single market by ID.
func (c *Client) GetMarket(ctx context.Context, id string) (*RawMarket, error) {
	body, err := c.get(ctx, "/markets/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting market %s: %w", id, err)
	}

	var m RawMarket
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decoding market %s: %w", id, err)
	}
	return &m, nil
}

// Raw performs a pass-through GET for the proxy routes, returning the
// unparsed upstream body and status.
func (c *Client) Raw(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	var (
		body   []byte
		status int
	)
	err := c.retry(ctx, func() error {
		b, s, err := c.do(ctx, path, params)
		if err != nil {
			return err
		}
		body, status = b, s
		return nil
	})
	return body, status, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		b, status, err := c.do(ctx, path, params)
		if err != nil {
			return err
		}
		if status >= 500 {
			return fmt.Errorf("gamma api status %d", status)
		}
		if status != http.StatusOK {
			// Client errors will not improve on retry.
			return backoff.Permanent(fmt.Errorf("gamma api status %d", status))
		}
		body = b
		return nil
	})
	return body, err
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("gamma request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	return backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		slog.Warn("gamma request failed, retrying", "error", err, "wait", wait)
	})
}
