// Package pricing fetches current coin prices from CoinGecko.
package pricing

import (
	"context"       // Request context
	"encoding/json" // Response decoding
	"fmt"           // Error wrapping
	"io"            // Error body reading
	"net/http"      // HTTP client
	"net/url"       // Query encoding
	"strings"       // String manipulation
	"time"          // Timeouts

	"github.com/sirupsen/logrus" // Logging
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = 10 * time.Second
)

// Source returns current prices keyed by upper-case ticker, denominated in currency.
// A price that could not be obtained is 0, never an error.
type Source interface {
	Prices(ctx context.Context, symbols []string, currency string) map[string]float64
}

// Client is a CoinGecko simple/price client
type Client struct {
	baseURL    string         // API root without trailing slash
	httpClient *http.Client   // Carries the request timeout
	log        *logrus.Logger // Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(log *logrus.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new CoinGecko client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError represents a non-200 answer from the price API
type APIError struct {
	StatusCode int    // HTTP status
	Message    string // First bytes of the body
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko API error: %s (status: %d)", e.Message, e.StatusCode)
}

// simplePriceResponse is {"bitcoin": {"usd": 64000.1}, ...}
type simplePriceResponse map[string]map[string]float64

// Prices issues one batched request for the distinct symbols.
// Every requested symbol is present in the result.
func (c *Client) Prices(ctx context.Context, symbols []string, currency string) map[string]float64 {
	prices := make(map[string]float64) // Result keyed by ticker
	var ids []string                   // Distinct CoinGecko ids
	seen := make(map[string]bool)      // Ids already queued
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		prices[s] = 0 // Default when the lookup fails
		if id := CoinID(s); !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return prices
	}

	vs := strings.ToLower(currency) // CoinGecko expects lower-case codes
	data, err := c.simplePrice(ctx, ids, vs)
	if err != nil {
		c.log.WithFields(logrus.Fields{"symbols": len(prices), "currency": currency, "error": err}).Warn("Price lookup failed")
		return prices
	}

	for s := range prices {
		price := data[CoinID(s)][vs]
		if price > 0 {
			prices[s] = price
			continue
		}
		c.log.WithFields(logrus.Fields{"symbol": s, "coin_id": CoinID(s), "currency": currency}).Warn("No price returned")
	}
	return prices
}

func (c *Client) simplePrice(ctx context.Context, ids []string, vs string) (simplePriceResponse, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", vs)
	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json") // JSON response

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) // Keep the error short
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var out simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
