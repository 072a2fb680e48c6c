// Package orders is a thin client to the storefront backend's order
// endpoints. The authoritative order record lives server-side; this package
// only creates it and reconciles the local result.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
	"github.com/farmbasket/checkout-service/internal/domain/model"
)

var (
	// ErrOrderRejected means the backend refused to create the order before
	// any money moved. Safe to retry.
	ErrOrderRejected = errors.New("orders: backend rejected order creation")

	// ErrOrderRecordFailed means a payment was already captured but the
	// durable order record could not be written. Not recoverable by retrying
	// the checkout; the payment reference must be surfaced to the caller.
	ErrOrderRecordFailed = errors.New("orders: payment succeeded, order record failed")
)

// Submitter creates order records on the backend.
type Submitter interface {
	// CreateCashOrder creates a cash-on-delivery order for the given amount
	// in minor units. Returns the backend's order reference.
	CreateCashOrder(ctx context.Context, amount int64, address model.Address, lines []model.CartLine) (model.Order, error)

	// CreateOrderDetails writes the secondary durable record used for
	// history and receipts. Idempotent against duplicate submission keyed by
	// the order reference.
	CreateOrderDetails(ctx context.Context, order model.Order) error
}

// Client implements Submitter over the backend's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCircuitBreaker wraps all order calls in the given circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// NewClient creates an orders client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cashOrderResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID      string `json:"_id"`
		OrderID string `json:"orderId"`
	} `json:"data"`
	Message string `json:"message"`
}

// CreateCashOrder creates a cash order on the backend.
func (c *Client) CreateCashOrder(ctx context.Context, amount int64, address model.Address, lines []model.CartLine) (model.Order, error) {
	req := map[string]interface{}{
		"amount":  amount,
		"address": address,
		"lines":   lines,
	}
	var resp cashOrderResponse
	if err := c.post(ctx, "/order/cash", nil, req, &resp); err != nil {
		return model.Order{}, fmt.Errorf("create cash order: %w", err)
	}
	if !resp.Success || resp.Data.OrderID == "" {
		if resp.Message != "" {
			return model.Order{}, fmt.Errorf("%w: %s", ErrOrderRejected, resp.Message)
		}
		return model.Order{}, ErrOrderRejected
	}
	return model.Order{
		OrderID:       resp.Data.OrderID,
		PaymentMethod: model.PaymentCash,
		Status:        model.OrderStatusConfirmed,
		Amount:        amount,
		Address:       address,
		Lines:         lines,
		CreatedAt:     time.Now(),
	}, nil
}

// CreateOrderDetails writes the durable order record. The order reference is
// sent as an idempotency key so a retried submission cannot duplicate the
// record. A failure here is wrapped in ErrOrderRecordFailed because the
// payment, if any, has already been captured.
func (c *Client) CreateOrderDetails(ctx context.Context, order model.Order) error {
	req := map[string]interface{}{
		"orderId":          order.OrderID,
		"paymentMethod":    order.PaymentMethod,
		"status":           order.Status,
		"amount":           order.Amount,
		"gatewayPaymentId": order.GatewayPaymentID,
		"address":          order.Address,
		"lines":            order.Lines,
	}
	headers := map[string]string{"Idempotency-Key": order.OrderID}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/order-details", headers, req, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrOrderRecordFailed, err)
	}
	if !resp.Success {
		if resp.Message != "" {
			return fmt.Errorf("%w: %s", ErrOrderRecordFailed, resp.Message)
		}
		return ErrOrderRecordFailed
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, headers map[string]string, body, out interface{}) error {
	if c.breaker == nil {
		return c.doPost(ctx, path, headers, body, out)
	}
	return c.breaker.Execute(ctx, func() error {
		return c.doPost(ctx, path, headers, body, out)
	})
}

func (c *Client) doPost(ctx context.Context, path string, headers map[string]string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("backend returned %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
