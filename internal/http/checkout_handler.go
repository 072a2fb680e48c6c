package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmbasket/checkout-service/internal/cart"
	"github.com/farmbasket/checkout-service/internal/checkout"
	"github.com/farmbasket/checkout-service/internal/domain/dto"
	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/gateway"
	"github.com/farmbasket/checkout-service/internal/i18n"
	"github.com/farmbasket/checkout-service/internal/metrics"
	"github.com/farmbasket/checkout-service/internal/middleware"
	"github.com/farmbasket/checkout-service/internal/orders"
)

// CheckoutHandler provides HTTP handlers for the checkout state machine.
type CheckoutHandler struct {
	manager  *checkout.Manager
	registry *cart.Registry
}

// NewCheckoutHandler creates a new CheckoutHandler instance.
func NewCheckoutHandler(manager *checkout.Manager, registry *cart.Registry) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, registry: registry}
}

func (h *CheckoutHandler) session(c *gin.Context) (*checkout.Controller, error) {
	return h.manager.Session(middleware.GetOwnerID(c))
}

// recordOutcome observes the begin-to-terminal duration once a session
// reaches CONFIRMED or FAILED.
func recordOutcome(state checkout.State) {
	if state.CreatedAt.IsZero() || !state.Step.IsTerminal() {
		return
	}
	metrics.RecordCheckoutOutcome(strings.ToLower(state.Step.String()), state.UpdatedAt.Sub(state.CreatedAt))
}

// respondCheckoutError maps a checkout error onto an HTTP response. Monetary
// failures carry the order or gateway reference so they stay attributable.
func respondCheckoutError(builder *ResponseBuilder, state checkout.State, err error) {
	var transition *checkout.TransitionError
	var stale *checkout.StaleCartError

	switch {
	case errors.Is(err, checkout.ErrNoSession):
		builder.ErrorCoded(http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyNoSession, "", err)
	case errors.Is(err, checkout.ErrEmptyCart):
		builder.ErrorCoded(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyEmptyCart, "", err)
	case errors.Is(err, checkout.ErrConfirmInFlight):
		builder.ErrorCoded(http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyConfirmInFlight, "", err)
	case errors.Is(err, checkout.ErrPaymentInFlight):
		builder.ErrorCoded(http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyPaymentInFlight, gatewayRef(state), err)
	case errors.Is(err, gateway.ErrUnknownCollection):
		builder.ErrorCoded(http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyUnknownGatewayOrder, "", err)
	case errors.Is(err, checkout.ErrNoPaymentMethod):
		builder.ErrorWithMessage(http.StatusBadRequest, err.Error(), err)
	case errors.As(err, &stale):
		builder.ErrorWithMessageCoded(http.StatusConflict, dto.ErrCodeStaleCart,
			builder.translate(i18n.ErrKeyStaleCart)+": "+strings.Join(stale.Unavailable, ", "), "", err)
	case errors.As(err, &transition):
		builder.ErrorCoded(http.StatusConflict, dto.ErrCodeCheckoutState, i18n.ErrKeyCheckoutState, "", err)
	case errors.Is(err, gateway.ErrBadSignature):
		builder.ErrorCoded(http.StatusBadRequest, dto.ErrCodePaymentFailed, i18n.ErrKeyPaymentFailed, state.OrderRef, err)
	case errors.Is(err, gateway.ErrVerificationFailed):
		builder.ErrorCoded(http.StatusPaymentRequired, dto.ErrCodePaymentUnverified, i18n.ErrKeyPaymentUnverified, gatewayRef(state), err)
	case errors.Is(err, orders.ErrOrderRecordFailed):
		builder.ErrorCoded(http.StatusInternalServerError, dto.ErrCodeOrderRecordFailed, i18n.ErrKeyOrderRecordFailed, gatewayRef(state), err)
	case errors.Is(err, orders.ErrOrderRejected), errors.Is(err, gateway.ErrPaymentFailed):
		builder.ErrorCoded(http.StatusPaymentRequired, dto.ErrCodePaymentFailed, i18n.ErrKeyPaymentFailed, gatewayRef(state), err)
	default:
		builder.Error(http.StatusBadGateway, i18n.ErrKeyInternalError, err)
	}
}

func gatewayRef(state checkout.State) string {
	if state.OrderRef != "" {
		return state.OrderRef
	}
	if state.GatewayOrder != nil {
		return state.GatewayOrder.GatewayOrderID
	}
	return ""
}

// Begin handles POST /api/checkout requests.
//
// @Summary      Begin checkout
// @Description  Starts a checkout attempt from an immutable snapshot of the caller's cart. Later cart edits do not alter the in-flight attempt's totals. Any previous attempt for the caller is discarded, unless it still has an online payment being collected.
// @Tags         Checkout
// @Produce      json
// @Success      201 {object} dto.SuccessResponse "New checkout state at the ADDRESS step"
// @Failure      400 {object} dto.ErrorResponse "Bad request - cart is empty"
// @Failure      409 {object} dto.ErrorResponse "Conflict - previous attempt's online payment still in flight"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Begin(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ownerID := middleware.GetOwnerID(c)
	store := h.registry.ForOwner(ownerID, middleware.IsAuthenticated(c))

	state, err := h.manager.Begin(c.Request.Context(), ownerID, store)
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}

	metrics.RecordCheckoutTransition(state.Step.String())
	builder.SuccessCreated(state)
}

// State handles GET /api/checkout requests.
//
// @Summary      Get checkout state
// @Description  Returns the caller's current checkout state: step, address, payment method, frozen snapshot, and order reference once confirmed.
// @Tags         Checkout
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Current checkout state"
// @Failure      404 {object} dto.ErrorResponse "Not found - no active checkout"
// @Router       /api/checkout [get]
func (h *CheckoutHandler) State(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ctrl, err := h.session(c)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}
	builder.SuccessOK(ctrl.State())
}

// SubmitAddress handles POST /api/checkout/address requests.
//
// @Summary      Submit delivery address
// @Description  Validates the delivery address and advances ADDRESS to PAYMENT_SELECT. Validation reports the first failing field.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.AddressRequest true "Delivery address"
// @Success      200 {object} dto.SuccessResponse "Checkout state at PAYMENT_SELECT"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid address"
// @Failure      404 {object} dto.ErrorResponse "Not found - no active checkout"
// @Failure      409 {object} dto.ErrorResponse "Conflict - not at the ADDRESS step"
// @Router       /api/checkout/address [post]
func (h *CheckoutHandler) SubmitAddress(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ctrl, err := h.session(c)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	req, err := BuildRequestAndValidate[dto.AddressRequest](c)
	if err != nil {
		builder.ErrorWithMessage(http.StatusBadRequest, err.Error(), err)
		return
	}

	state, err := ctrl.SubmitAddress(c.Request.Context(), req.Address())
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}

	metrics.RecordCheckoutTransition(state.Step.String())
	builder.SuccessOK(state)
}

// SelectPayment handles POST /api/checkout/payment requests.
//
// @Summary      Select payment method
// @Description  Records the chosen payment method (cash or online) while staying at PAYMENT_SELECT.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.SelectPaymentRequest true "Payment method"
// @Success      200 {object} dto.SuccessResponse "Updated checkout state"
// @Failure      400 {object} dto.ErrorResponse "Bad request - unknown method"
// @Failure      404 {object} dto.ErrorResponse "Not found - no active checkout"
// @Failure      409 {object} dto.ErrorResponse "Conflict - not at the PAYMENT_SELECT step"
// @Router       /api/checkout/payment [post]
func (h *CheckoutHandler) SelectPayment(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ctrl, err := h.session(c)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	req, err := BuildRequestAndValidate[dto.SelectPaymentRequest](c)
	if err != nil {
		builder.ErrorWithMessage(http.StatusBadRequest, err.Error(), err)
		return
	}

	state, err := ctrl.SelectPayment(c.Request.Context(), model.PaymentMethod(req.Method))
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}
	builder.SuccessOK(state)
}

// Back handles POST /api/checkout/back requests.
//
// @Summary      Step back
// @Description  Steps PAYMENT_SELECT back to ADDRESS (address preserved), or FAILED back to PAYMENT_SELECT to retry a failed confirmation.
// @Tags         Checkout
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Updated checkout state"
// @Failure      404 {object} dto.ErrorResponse "Not found - no active checkout"
// @Failure      409 {object} dto.ErrorResponse "Conflict - step does not allow going back"
// @Router       /api/checkout/back [post]
func (h *CheckoutHandler) Back(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ctrl, err := h.session(c)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	state, err := ctrl.Back(c.Request.Context())
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}

	metrics.RecordCheckoutTransition(state.Step.String())
	builder.SuccessOK(state)
}

// Confirm handles POST /api/checkout/confirm requests.
//
// @Summary      Confirm checkout
// @Description  Executes the selected payment path. Cash submits the order and confirms; online creates a gateway order and returns PROCESSING with the widget parameters (key, gateway order, amount, currency). With wait=true the response is held until the widget outcome arrives (or the request is cancelled), so the caller sees the final state instead of PROCESSING. Exactly one order results even if confirm is called twice.
// @Tags         Checkout
// @Produce      json
// @Param        wait query bool false "Hold the response until the online payment outcome arrives"
// @Success      200 {object} dto.SuccessResponse "CONFIRMED (cash) or PROCESSING (online) checkout state"
// @Failure      402 {object} dto.ErrorResponse "Payment required - payment or order submission failed"
// @Failure      404 {object} dto.ErrorResponse "Not found - no active checkout"
// @Failure      409 {object} dto.ErrorResponse "Conflict - wrong step, stale cart, or confirm already in flight"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/checkout/confirm [post]
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ctrl, err := h.session(c)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	state, err := ctrl.Confirm(c.Request.Context())
	recordOutcome(state)
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}

	// The gateway endpoints apply the outcome (and record it); waiting only
	// delays the response until they have.
	if state.Step == model.StepProcessing && c.Query("wait") == "true" {
		state, err = ctrl.AwaitOutcome(c.Request.Context())
		if err != nil && c.Request.Context().Err() == nil {
			respondCheckoutError(builder, state, err)
			return
		}
	}

	metrics.RecordCheckoutTransition(state.Step.String())
	if state.Step == model.StepConfirmed {
		metrics.RecordOrderSubmission(string(state.PaymentMethod), "success")
	}
	builder.SuccessOK(state)
}

// GatewayCallback handles POST /api/checkout/gateway/callback requests.
//
// @Summary      Gateway success callback
// @Description  Consumes the widget's signed success payload and runs the mandatory server-side verification. Only a verified payment confirms the order; an unverified capture fails the attempt without clearing the cart.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        X-API-Key header string false "Callback API key (required if configured)"
// @Param        request body dto.GatewayCallbackRequest true "Signed widget result"
// @Success      200 {object} dto.SuccessResponse "CONFIRMED checkout state"
// @Failure      400 {object} dto.ErrorResponse "Bad request - malformed payload or bad signature"
// @Failure      402 {object} dto.ErrorResponse "Payment required - captured but unverified"
// @Failure      404 {object} dto.ErrorResponse "Not found - no session pending on this gateway order"
// @Failure      500 {object} dto.ErrorResponse "Internal server error - payment succeeded, order record failed"
// @Security     ApiKeyAuth
// @Router       /api/checkout/gateway/callback [post]
func (h *CheckoutHandler) GatewayCallback(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.GatewayCallbackRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	ctrl, err := h.manager.SessionByGatewayOrder(req.GatewayOrderID)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	state, err := ctrl.HandleGatewayResult(c.Request.Context(), req.Result())
	recordOutcome(state)
	if err != nil {
		metrics.RecordGatewayCall("verify", "failure")
		respondCheckoutError(builder, state, err)
		return
	}

	metrics.RecordGatewayCall("verify", "success")
	metrics.RecordCheckoutTransition(state.Step.String())
	metrics.RecordOrderSubmission(string(model.PaymentOnline), "success")
	builder.SuccessOK(state)
}

// GatewayDismiss handles POST /api/checkout/gateway/dismiss requests.
//
// @Summary      Gateway widget dismissed
// @Description  Reports that the buyer closed the widget without paying. The attempt returns to PAYMENT_SELECT; the cart is untouched and no order exists.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.GatewayDismissRequest true "Dismissed gateway order"
// @Success      200 {object} dto.SuccessResponse "Checkout state back at PAYMENT_SELECT"
// @Failure      404 {object} dto.ErrorResponse "Not found - no session pending on this gateway order"
// @Failure      409 {object} dto.ErrorResponse "Conflict - not processing"
// @Router       /api/checkout/gateway/dismiss [post]
func (h *CheckoutHandler) GatewayDismiss(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.GatewayDismissRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	ctrl, err := h.manager.SessionByGatewayOrder(req.GatewayOrderID)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	state, err := ctrl.HandleGatewayDismiss(c.Request.Context())
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}

	metrics.RecordCheckoutTransition(state.Step.String())
	builder.SuccessOK(state)
}

// GatewayFailure handles POST /api/checkout/gateway/failure requests.
//
// @Summary      Gateway payment failed
// @Description  Consumes the gateway's payment.failed event. The attempt moves to FAILED and can be retried from PAYMENT_SELECT.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.GatewayFailureRequest true "Failed gateway order with reason"
// @Success      200 {object} dto.SuccessResponse "FAILED checkout state"
// @Failure      404 {object} dto.ErrorResponse "Not found - no session pending on this gateway order"
// @Failure      409 {object} dto.ErrorResponse "Conflict - not processing"
// @Router       /api/checkout/gateway/failure [post]
func (h *CheckoutHandler) GatewayFailure(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.GatewayFailureRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	ctrl, err := h.manager.SessionByGatewayOrder(req.GatewayOrderID)
	if err != nil {
		respondCheckoutError(builder, checkout.State{}, err)
		return
	}

	state, err := ctrl.HandleGatewayFailure(c.Request.Context(), req.Reason)
	recordOutcome(state)
	if err != nil {
		respondCheckoutError(builder, state, err)
		return
	}

	metrics.RecordGatewayCall("collect", "failure")
	metrics.RecordCheckoutTransition(state.Step.String())
	builder.SuccessOK(state)
}
