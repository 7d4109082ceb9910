package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrMissingAPIKey = errors.New("quotes api key is required")

// Client proxies quote lookups to a twelvedata-style REST provider. The
// trade executor never consults it: execution prices come from the
// caller. Provider responses are passed through opaquely.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Quote fetches the current quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/quote", url.Values{"symbol": {symbol}})
}

// Search looks up symbols matching the query.
func (c *Client) Search(ctx context.Context, symbol string) (json.RawMessage, error) {
	return c.get(ctx, "/symbol_search", url.Values{"symbol": {symbol}})
}

// TimeSeries fetches historical candles for symbol at the given interval.
func (c *Client) TimeSeries(ctx context.Context, symbol, interval string) (json.RawMessage, error) {
	return c.get(ctx, "/time_series", url.Values{"symbol": {symbol}, "interval": {interval}})
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider status %d: %s", resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, errors.New("quote provider returned invalid json")
	}
	return json.RawMessage(body), nil
}
