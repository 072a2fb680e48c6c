package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
	"github.com/farmbasket/checkout-service/internal/domain/model"
)

// Client implements Adapter against the storefront backend's gateway proxy
// endpoints. The backend holds the secret key and performs signature
// verification against the processor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker

	credTTL time.Duration
	credMu  sync.Mutex
	cred    *Credential
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCircuitBreaker wraps all gateway calls in the given circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithCredentialTTL sets how long a fetched credential is served from cache.
func WithCredentialTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl > 0 {
			c.credTTL = ttl
		}
	}
}

// NewClient creates a gateway client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		credTTL:    time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credential returns the publishable key, fetching it once and serving from
// cache until the TTL elapses.
func (c *Client) Credential(ctx context.Context) (Credential, error) {
	c.credMu.Lock()
	defer c.credMu.Unlock()

	if c.cred != nil && time.Since(c.cred.FetchedAt) < c.credTTL {
		return *c.cred, nil
	}

	var resp struct {
		Key string `json:"key"`
	}
	if err := c.post(ctx, "/payment/gateway/key", nil, &resp); err != nil {
		return Credential{}, fmt.Errorf("fetch gateway key: %w", err)
	}
	if resp.Key == "" {
		return Credential{}, fmt.Errorf("fetch gateway key: empty key in response")
	}

	cred := Credential{Key: resp.Key, FetchedAt: time.Now()}
	c.cred = &cred
	return cred, nil
}

// InvalidateCredential drops the cached key, forcing a re-fetch on expiry.
func (c *Client) InvalidateCredential() {
	c.credMu.Lock()
	defer c.credMu.Unlock()
	c.cred = nil
}

// CreateOrder registers a gateway order for the amount in minor units.
func (c *Client) CreateOrder(ctx context.Context, amount int64, receipt string) (Order, error) {
	req := map[string]interface{}{
		"amount":  amount,
		"receipt": receipt,
	}
	var resp struct {
		GatewayOrderID string `json:"gatewayOrderId"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
	}
	if err := c.post(ctx, "/payment/gateway/order", req, &resp); err != nil {
		return Order{}, fmt.Errorf("create gateway order: %w", err)
	}
	if resp.GatewayOrderID == "" {
		return Order{}, fmt.Errorf("create gateway order: empty order reference")
	}
	return Order{
		GatewayOrderID: resp.GatewayOrderID,
		Amount:         resp.Amount,
		Currency:       resp.Currency,
	}, nil
}

// Verify performs the server-side verification round-trip for a signed
// widget result. A verification with Success=false is reported as
// ErrVerificationFailed; the payment is captured but must not be re-charged.
func (c *Client) Verify(ctx context.Context, result model.GatewayResult) (Verification, error) {
	req := map[string]string{
		"gateway_order_id":   result.GatewayOrderID,
		"gateway_payment_id": result.GatewayPaymentID,
		"signature":          result.Signature,
	}
	var resp struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	if err := c.post(ctx, "/payment/gateway/verify", req, &resp); err != nil {
		return Verification{}, fmt.Errorf("verify payment %s: %w", result.GatewayPaymentID, err)
	}
	v := Verification{Success: resp.Success, OrderID: resp.OrderID}
	if !v.Success {
		return v, fmt.Errorf("payment %s: %w", result.GatewayPaymentID, ErrVerificationFailed)
	}
	return v, nil
}

// post issues a JSON POST, optionally through the circuit breaker.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	call := func() error {
		return c.doPost(ctx, path, body, out)
	}
	if c.breaker != nil {
		return c.breaker.Execute(ctx, call)
	}
	return call()
}

func (c *Client) doPost(ctx context.Context, path string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway backend returned %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
