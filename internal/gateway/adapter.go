// Package gateway wraps the external payment processor behind a small
// interface: credential fetch, order creation, collection of the widget
// outcome, and mandatory server-side verification. The gateway is untrusted
// input; the widget's success callback alone never confirms a payment.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
)

var (
	// ErrPaymentFailed is returned when the gateway reports a failed payment.
	ErrPaymentFailed = errors.New("gateway reported payment failure")
	// ErrVerificationFailed is returned when a captured payment does not
	// verify. Callers must not retry the charge.
	ErrVerificationFailed = errors.New("payment captured but unverified")
	// ErrBadSignature is returned when the widget's signature does not match
	// the expected HMAC.
	ErrBadSignature = errors.New("gateway signature mismatch")
)

// Credential is the publishable key the collection widget is opened with.
type Credential struct {
	Key       string    `json:"key"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Order is a gateway-side order handle created before collection.
type Order struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// Verification is the outcome of the server-side verification round-trip.
type Verification struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
}

// Adapter is the narrow interface the checkout controller depends on.
type Adapter interface {
	// Credential returns the publishable key, cached until expiry.
	Credential(ctx context.Context) (Credential, error)
	// CreateOrder registers a gateway order for the amount in minor units.
	CreateOrder(ctx context.Context, amount int64, receipt string) (Order, error)
	// Verify performs the mandatory server-side verification of a signed
	// widget result. It is the sole basis for confirming an online payment.
	Verify(ctx context.Context, result model.GatewayResult) (Verification, error)
}
