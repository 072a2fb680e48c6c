// Package checkout implements the checkout state machine: a per-owner
// session that moves ADDRESS -> PAYMENT_SELECT -> PROCESSING and terminates
// in CONFIRMED or FAILED. The session freezes a cart snapshot at begin time
// so concurrent cart edits cannot alter an in-flight attempt's totals.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/gateway"
)

var (
	// ErrEmptyCart is returned when checkout begins on a cart with no lines.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrNoSession is returned when an operation targets an owner with no
	// active checkout session.
	ErrNoSession = errors.New("checkout: no active session")
	// ErrConfirmInFlight is returned when Confirm is called while a prior
	// confirmation is still processing. Exactly one order results.
	ErrConfirmInFlight = errors.New("checkout: confirmation already in flight")
	// ErrNoPaymentMethod is returned when Confirm runs before a payment
	// method was selected.
	ErrNoPaymentMethod = errors.New("checkout: no payment method selected")
	// ErrPaymentInFlight is returned when a new checkout is begun while the
	// owner's previous session still has an online payment mid-collection.
	// Replacing the session would orphan the pending gateway order, so the
	// widget outcome must arrive (or be dismissed) first.
	ErrPaymentInFlight = errors.New("checkout: online payment still in flight")
)

// TransitionError reports an operation attempted from a step that does not
// permit it.
type TransitionError struct {
	Op   string
	From model.CheckoutStep
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("checkout: %s not allowed from %s", e.Op, e.From)
}

// StaleCartError is returned when the frozen snapshot no longer matches
// current stock at confirmation time. It names every unavailable item so the
// buyer can fix the cart instead of guessing.
type StaleCartError struct {
	Unavailable []string
}

func (e *StaleCartError) Error() string {
	return "checkout: items no longer available: " + strings.Join(e.Unavailable, ", ")
}

// session is the mutable state of one checkout attempt. It is owned by a
// Controller and only read through State copies.
type session struct {
	id            string
	ownerID       string
	step          model.CheckoutStep
	address       model.Address
	hasAddress    bool
	paymentMethod model.PaymentMethod
	snapshot      model.Cart
	gatewayOrder  gateway.Order
	gatewayKey    string
	orderRef      string
	failure       string
	createdAt     time.Time
	updatedAt     time.Time
}

// State is an immutable view of a checkout session, safe to serialize.
type State struct {
	SessionID     string              `json:"session_id"`
	OwnerID       string              `json:"owner_id"`
	Step          model.CheckoutStep  `json:"step"`
	Address       *model.Address      `json:"address,omitempty"`
	PaymentMethod model.PaymentMethod `json:"payment_method,omitempty"`
	Snapshot      model.Cart          `json:"snapshot"`
	// GatewayOrder and GatewayKey are set while an online payment is
	// processing; the client opens the collection widget with them.
	GatewayOrder *gateway.Order `json:"gateway_order,omitempty"`
	GatewayKey   string         `json:"gateway_key,omitempty"`
	// OrderRef is the backend's order reference, set on CONFIRMED.
	OrderRef string `json:"order_ref,omitempty"`
	// Failure carries the reason for a FAILED step.
	Failure   string    `json:"failure,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *session) state() State {
	st := State{
		SessionID:     s.id,
		OwnerID:       s.ownerID,
		Step:          s.step,
		PaymentMethod: s.paymentMethod,
		Snapshot:      s.snapshot.Clone(),
		GatewayKey:    s.gatewayKey,
		OrderRef:      s.orderRef,
		Failure:       s.failure,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
	if s.hasAddress {
		addr := s.address
		st.Address = &addr
	}
	if s.gatewayOrder.GatewayOrderID != "" {
		g := s.gatewayOrder
		st.GatewayOrder = &g
	}
	return st
}
