// Package catalog provides product availability lookups against the
// storefront backend, used to guard checkout against stale cart snapshots.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
)

// Availability is the current sellable quantity of one product.
type Availability struct {
	ProductID string `json:"productId"`
	Stock     int64  `json:"stock"`
}

// StockClient queries the backend for current stock levels.
type StockClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// ClientOption configures a StockClient.
type ClientOption func(*StockClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *StockClient) {
		c.httpClient = hc
	}
}

// WithCircuitBreaker wraps stock lookups in the given circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) ClientOption {
	return func(c *StockClient) {
		c.breaker = cb
	}
}

// NewStockClient creates a stock client for the given backend base URL.
func NewStockClient(baseURL string, timeout time.Duration, opts ...ClientOption) *StockClient {
	c := &StockClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckStock returns current stock for the given product IDs. Products the
// backend does not know about are reported with zero stock so callers treat
// delisted items as unavailable.
func (c *StockClient) CheckStock(ctx context.Context, productIDs []string) (map[string]int64, error) {
	if len(productIDs) == 0 {
		return map[string]int64{}, nil
	}

	run := func() (map[string]int64, error) {
		return c.fetch(ctx, productIDs)
	}
	if c.breaker == nil {
		return run()
	}

	var out map[string]int64
	err := c.breaker.Execute(ctx, func() error {
		var innerErr error
		out, innerErr = run()
		return innerErr
	})
	return out, err
}

func (c *StockClient) fetch(ctx context.Context, productIDs []string) (map[string]int64, error) {
	body, err := json.Marshal(map[string]interface{}{"productIds": productIDs})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/product/availability", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call backend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("backend returned %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}

	var resp struct {
		Products []Availability `json:"products"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	stock := make(map[string]int64, len(productIDs))
	for _, id := range productIDs {
		stock[id] = 0
	}
	for _, p := range resp.Products {
		stock[p.ProductID] = p.Stock
	}
	return stock, nil
}
