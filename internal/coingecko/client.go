// Package coingecko talks to the CoinGecko v3 API and reconciles its sparse
// price series onto aligned time grids.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/observability"
)

// DefaultBaseURL is the public CoinGecko v3 API endpoint.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// Client is an HTTP client for the CoinGecko API. Transient failures
// (transport errors, 429, 5xx) are retried with exponential backoff; other
// non-2xx statuses surface immediately.
type Client struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new CoinGecko API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCoinMarketChartRange fetches price, market cap, and volume series for a
// coin within [from, to].
func (c *Client) GetCoinMarketChartRange(ctx context.Context, coinID domain.CoinID, vsCurrency string, from, to domain.UnixTime) (*MarketChartRange, error) {
	query := url.Values{}
	query.Set("vs_currency", vsCurrency)
	query.Set("from", strconv.FormatInt(from.Seconds(), 10))
	query.Set("to", strconv.FormatInt(to.Seconds(), 10))

	var raw marketChartRangeResult
	path := fmt.Sprintf("/coins/%s/market_chart/range", coinID)
	if err := c.get(ctx, "market_chart_range", path, query, &raw); err != nil {
		return nil, err
	}
	return raw.toData()
}

// GetCoinList fetches the provider's coin index, optionally with per-platform
// contract addresses.
func (c *Client) GetCoinList(ctx context.Context, includePlatform bool) ([]CoinListEntry, error) {
	query := url.Values{}
	if includePlatform {
		query.Set("include_platform", "true")
	}

	var result []CoinListEntry
	if err := c.get(ctx, "coin_list", "/coins/list", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// get performs a GET request with retries and exponential backoff. The name
// labels the call in provider metrics; one observation covers the whole call
// including retries.
func (c *Client) get(ctx context.Context, name, path string, query url.Values, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		observability.RecordProviderCall(name, status, time.Since(start).Seconds())
	}()

	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Handle rate limiting
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Client errors are not retried
			return fmt.Errorf("server responded with non-2xx result: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
