package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/farmbasket/checkout-service/internal/cart"
	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/gateway"
	"github.com/farmbasket/checkout-service/internal/orders"
)

// StockChecker reports current sellable stock for a set of products. It
// guards Confirm against a snapshot that has gone stale since begin.
type StockChecker interface {
	CheckStock(ctx context.Context, productIDs []string) (map[string]int64, error)
}

// Deps are the collaborators a Controller needs. All are required except
// Recorder and Stock, which degrade to no-ops when nil.
type Deps struct {
	Cart      cart.Store
	Gateway   gateway.Adapter
	Collector *gateway.Collector
	Orders    orders.Submitter
	Stock     StockChecker
	Recorder  EventRecorder
	// SignatureSecret, when set, enables local HMAC verification of widget
	// results before the server-side verify round-trip.
	SignatureSecret string
}

// Controller drives one owner's checkout attempt through the state machine.
// All operations are safe for concurrent use; at most one confirmation is
// ever in flight.
type Controller struct {
	deps Deps
	now  func() time.Time

	// mu serializes every session operation. Confirm uses TryLock so a
	// second confirmation cannot queue behind the first and submit twice.
	mu   sync.Mutex
	sess *session
}

// newController starts a session in ADDRESS with a frozen cart snapshot.
func newController(ownerID string, snapshot model.Cart, deps Deps, now func() time.Time) *Controller {
	ts := now()
	return &Controller{
		deps: deps,
		now:  now,
		sess: &session{
			id:        uuid.New().String(),
			ownerID:   ownerID,
			step:      model.StepAddress,
			snapshot:  snapshot,
			createdAt: ts,
			updatedAt: ts,
		},
	}
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.state()
}

// gatewayOrderRef returns the pending gateway order ID, if any.
func (c *Controller) gatewayOrderRef() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.gatewayOrder.GatewayOrderID
}

// AwaitOutcome blocks until the pending online payment's widget outcome has
// been applied to the session, then returns the resulting state. The gateway
// endpoints drive the actual transition; this only waits for it, so callers
// get a synchronous confirm over the asynchronous widget. Dismissal is
// benign and reported through the state alone. Giving up (ctx) abandons the
// pending collection; a later widget outcome still completes the session.
func (c *Controller) AwaitOutcome(ctx context.Context) (State, error) {
	c.mu.Lock()
	step := c.sess.step
	gwID := c.sess.gatewayOrder.GatewayOrderID
	c.mu.Unlock()

	if step != model.StepProcessing || gwID == "" || c.deps.Collector == nil {
		return c.State(), nil
	}

	_, err := c.deps.Collector.Collect(ctx, gwID)
	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrDismissed), errors.Is(err, gateway.ErrUnknownCollection):
		err = nil
	}
	return c.State(), err
}

// paymentPending reports whether the session is mid-collection on an online
// payment: PROCESSING with a gateway order whose widget outcome has not
// arrived yet.
func (c *Controller) paymentPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.step != model.StepProcessing || c.sess.gatewayOrder.GatewayOrderID == "" {
		return false
	}
	if c.deps.Collector == nil {
		return true
	}
	return c.deps.Collector.Pending(c.sess.gatewayOrder.GatewayOrderID)
}

func (c *Controller) transition(ctx context.Context, to model.CheckoutStep, orderRef, detail string) {
	from := c.sess.step
	c.sess.step = to
	c.sess.updatedAt = c.now()
	if c.deps.Recorder != nil {
		c.deps.Recorder.Record(ctx, TransitionEvent{
			OwnerID:   c.sess.ownerID,
			SessionID: c.sess.id,
			From:      from,
			To:        to,
			OrderRef:  orderRef,
			Detail:    detail,
		})
	}
}

// SubmitAddress validates nothing itself (the DTO layer does) and moves
// ADDRESS -> PAYMENT_SELECT, storing the delivery address.
func (c *Controller) SubmitAddress(ctx context.Context, addr model.Address) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.step != model.StepAddress {
		return c.sess.state(), &TransitionError{Op: "submit address", From: c.sess.step}
	}
	c.sess.address = addr
	c.sess.hasAddress = true
	c.transition(ctx, model.StepPaymentSelect, "", "")
	return c.sess.state(), nil
}

// SelectPayment records the chosen payment method. Allowed only in
// PAYMENT_SELECT; the step does not change until Confirm.
func (c *Controller) SelectPayment(ctx context.Context, method model.PaymentMethod) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.step != model.StepPaymentSelect {
		return c.sess.state(), &TransitionError{Op: "select payment", From: c.sess.step}
	}
	if !method.Valid() {
		return c.sess.state(), fmt.Errorf("checkout: unknown payment method %q", method)
	}
	c.sess.paymentMethod = method
	c.sess.updatedAt = c.now()
	return c.sess.state(), nil
}

// Back steps PAYMENT_SELECT -> ADDRESS (address preserved for re-edit) and
// FAILED -> PAYMENT_SELECT (the retry path after a failed confirmation).
func (c *Controller) Back(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.sess.step {
	case model.StepPaymentSelect:
		c.transition(ctx, model.StepAddress, "", "")
	case model.StepFailed:
		c.sess.failure = ""
		c.transition(ctx, model.StepPaymentSelect, "", "retry after failure")
	default:
		return c.sess.state(), &TransitionError{Op: "back", From: c.sess.step}
	}
	return c.sess.state(), nil
}

// Confirm executes the selected payment path. Cash submits the order
// directly; online creates a gateway order and parks in PROCESSING until the
// widget outcome arrives. A second Confirm while one is processing returns
// ErrConfirmInFlight; exactly one order ever results.
func (c *Controller) Confirm(ctx context.Context) (State, error) {
	if !c.mu.TryLock() {
		return State{}, ErrConfirmInFlight
	}
	defer c.mu.Unlock()

	switch {
	case c.sess.step == model.StepProcessing:
		return c.sess.state(), ErrConfirmInFlight
	case c.sess.step != model.StepPaymentSelect:
		return c.sess.state(), &TransitionError{Op: "confirm", From: c.sess.step}
	case !c.sess.paymentMethod.Valid():
		return c.sess.state(), ErrNoPaymentMethod
	}

	if err := c.checkSnapshotStock(ctx); err != nil {
		return c.sess.state(), err
	}

	c.transition(ctx, model.StepProcessing, "", string(c.sess.paymentMethod))

	switch c.sess.paymentMethod {
	case model.PaymentCash:
		return c.confirmCash(ctx)
	default:
		return c.confirmOnline(ctx)
	}
}

// checkSnapshotStock names every snapshot line whose current stock no longer
// covers its quantity. The snapshot itself is never mutated.
func (c *Controller) checkSnapshotStock(ctx context.Context) error {
	if c.deps.Stock == nil {
		return nil
	}
	ids := make([]string, 0, len(c.sess.snapshot.Lines))
	for _, l := range c.sess.snapshot.Lines {
		ids = append(ids, l.ProductID)
	}
	stock, err := c.deps.Stock.CheckStock(ctx, ids)
	if err != nil {
		// Availability is a guard, not a gate: if the check itself is down
		// the backend still enforces stock at order creation.
		log.Warn().Err(err).Str("owner_id", c.sess.ownerID).Msg("stock check unavailable, proceeding")
		return nil
	}

	var unavailable []string
	for _, l := range c.sess.snapshot.Lines {
		if stock[l.ProductID] < int64(l.Quantity) {
			unavailable = append(unavailable, l.Name)
		}
	}
	if len(unavailable) > 0 {
		return &StaleCartError{Unavailable: unavailable}
	}
	return nil
}

func (c *Controller) confirmCash(ctx context.Context) (State, error) {
	amount := c.sess.snapshot.Aggregate.GrandTotal
	order, err := c.deps.Orders.CreateCashOrder(ctx, amount, c.sess.address, c.sess.snapshot.Lines)
	if err != nil {
		c.sess.failure = err.Error()
		c.transition(ctx, model.StepFailed, "", err.Error())
		return c.sess.state(), err
	}

	if derr := c.deps.Orders.CreateOrderDetails(ctx, order); derr != nil {
		// The authoritative cash order exists; the history record is
		// secondary. Surface via log and event, keep the confirmation.
		log.Error().Err(derr).Str("order_id", order.OrderID).Msg("order details record failed")
	}

	c.sess.orderRef = order.OrderID
	c.transition(ctx, model.StepConfirmed, order.OrderID, "")
	c.clearCart(ctx)
	return c.sess.state(), nil
}

func (c *Controller) confirmOnline(ctx context.Context) (State, error) {
	cred, err := c.deps.Gateway.Credential(ctx)
	if err != nil {
		c.sess.failure = err.Error()
		c.transition(ctx, model.StepFailed, "", err.Error())
		return c.sess.state(), err
	}

	amount := c.sess.snapshot.Aggregate.GrandTotal
	gwOrder, err := c.deps.Gateway.CreateOrder(ctx, amount, c.sess.id)
	if err != nil {
		c.sess.failure = err.Error()
		c.transition(ctx, model.StepFailed, "", err.Error())
		return c.sess.state(), err
	}

	c.sess.gatewayOrder = gwOrder
	c.sess.gatewayKey = cred.Key
	if c.deps.Collector != nil {
		c.deps.Collector.Open(gwOrder.GatewayOrderID)
	}
	// Parked in PROCESSING; HandleGatewayResult or HandleGatewayDismiss
	// finishes the attempt.
	return c.sess.state(), nil
}

// HandleGatewayResult consumes the widget's signed success callback and runs
// the mandatory server-side verification. The callback alone never confirms
// a payment.
func (c *Controller) HandleGatewayResult(ctx context.Context, result model.GatewayResult) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.step != model.StepProcessing || c.sess.gatewayOrder.GatewayOrderID == "" {
		return c.sess.state(), &TransitionError{Op: "gateway result", From: c.sess.step}
	}
	if result.GatewayOrderID != c.sess.gatewayOrder.GatewayOrderID {
		return c.sess.state(), gateway.ErrUnknownCollection
	}

	if c.deps.SignatureSecret != "" {
		if err := gateway.CheckSignature(c.deps.SignatureSecret, result); err != nil {
			c.sess.failure = err.Error()
			c.transition(ctx, model.StepFailed, "", err.Error())
			c.resolveCollector(result, err)
			return c.sess.state(), err
		}
	}

	verification, err := c.deps.Gateway.Verify(ctx, result)
	if err != nil {
		c.sess.failure = err.Error()
		c.transition(ctx, model.StepFailed, "", err.Error())
		c.resolveCollector(result, err)
		return c.sess.state(), err
	}

	order := model.Order{
		OrderID:          verification.OrderID,
		PaymentMethod:    model.PaymentOnline,
		Status:           model.OrderStatusConfirmed,
		Amount:           c.sess.snapshot.Aggregate.GrandTotal,
		GatewayPaymentID: result.GatewayPaymentID,
		Address:          c.sess.address,
		Lines:            c.sess.snapshot.Lines,
		CreatedAt:        c.now(),
	}
	if derr := c.deps.Orders.CreateOrderDetails(ctx, order); derr != nil {
		// Payment captured and verified but the durable record failed. The
		// event log keeps the payment reference so the paid order is never
		// silently lost.
		c.sess.failure = derr.Error()
		detail := fmt.Sprintf("payment %s captured, record failed", result.GatewayPaymentID)
		c.transition(ctx, model.StepFailed, verification.OrderID, detail)
		c.resolveCollector(result, derr)
		return c.sess.state(), derr
	}

	c.sess.orderRef = verification.OrderID
	c.transition(ctx, model.StepConfirmed, verification.OrderID, "")
	c.clearCart(ctx)
	c.resolveCollector(result, nil)
	return c.sess.state(), nil
}

// HandleGatewayDismiss handles the buyer closing the widget: no charge was
// made, so the attempt returns to PAYMENT_SELECT with the cart untouched.
func (c *Controller) HandleGatewayDismiss(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.step != model.StepProcessing {
		return c.sess.state(), &TransitionError{Op: "gateway dismiss", From: c.sess.step}
	}
	if c.deps.Collector != nil && c.sess.gatewayOrder.GatewayOrderID != "" {
		_ = c.deps.Collector.Dismiss(c.sess.gatewayOrder.GatewayOrderID)
	}
	c.sess.gatewayOrder = gateway.Order{}
	c.sess.gatewayKey = ""
	c.transition(ctx, model.StepPaymentSelect, "", "widget dismissed")
	return c.sess.state(), nil
}

// HandleGatewayFailure handles the gateway's payment.failed event. The
// attempt fails but remains retryable via Back.
func (c *Controller) HandleGatewayFailure(ctx context.Context, reason string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.step != model.StepProcessing {
		return c.sess.state(), &TransitionError{Op: "gateway failure", From: c.sess.step}
	}
	if c.deps.Collector != nil && c.sess.gatewayOrder.GatewayOrderID != "" {
		_ = c.deps.Collector.Fail(c.sess.gatewayOrder.GatewayOrderID, errors.New(reason))
	}
	c.sess.gatewayOrder = gateway.Order{}
	c.sess.gatewayKey = ""
	c.sess.failure = reason
	c.transition(ctx, model.StepFailed, "", reason)
	return c.sess.state(), nil
}

func (c *Controller) resolveCollector(result model.GatewayResult, err error) {
	if c.deps.Collector == nil {
		return
	}
	id := c.sess.gatewayOrder.GatewayOrderID
	if id == "" {
		return
	}
	if err != nil {
		_ = c.deps.Collector.Fail(id, err)
		return
	}
	_ = c.deps.Collector.Resolve(id, result)
}

// clearCart empties the owner's live cart after a confirmed order. A failed
// clear is logged, not fatal: the order already exists.
func (c *Controller) clearCart(ctx context.Context) {
	if err := c.deps.Cart.Clear(ctx); err != nil {
		log.Error().Err(err).Str("owner_id", c.sess.ownerID).Msg("cart clear after confirmed order failed")
	}
}
