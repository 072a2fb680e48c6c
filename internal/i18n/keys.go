// Package i18n provides internationalization support for the checkout service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
)

// Cart and checkout translation keys.
const (
	// ErrKeyLineNotFound indicates a cart mutation targeted a missing line.
	ErrKeyLineNotFound = "error.line_not_found"
	// ErrKeyStockLimit indicates a quantity beyond available stock.
	ErrKeyStockLimit = "error.stock_limit"
	// ErrKeyEmptyCart indicates checkout begun on an empty cart.
	ErrKeyEmptyCart = "error.empty_cart"
	// ErrKeyNoSession indicates no active checkout session.
	ErrKeyNoSession = "error.no_session"
	// ErrKeyCheckoutState indicates an operation not allowed at the current step.
	ErrKeyCheckoutState = "error.checkout_state"
	// ErrKeyStaleCart indicates the snapshot no longer matches current stock.
	ErrKeyStaleCart = "error.stale_cart"
	// ErrKeyConfirmInFlight indicates a duplicate confirmation attempt.
	ErrKeyConfirmInFlight = "error.confirm_in_flight"
	// ErrKeyPaymentInFlight indicates a new checkout attempted while an
	// online payment from the previous attempt is still being collected.
	ErrKeyPaymentInFlight = "error.payment_in_flight"
	// ErrKeyUnknownGatewayOrder indicates a gateway callback referencing an
	// order no session is waiting on.
	ErrKeyUnknownGatewayOrder = "error.unknown_gateway_order"
	// ErrKeyPaymentFailed indicates the gateway reported a failed payment.
	ErrKeyPaymentFailed = "error.payment_failed"
	// ErrKeyPaymentUnverified indicates a captured but unverified payment.
	ErrKeyPaymentUnverified = "error.payment_unverified"
	// ErrKeyOrderRecordFailed indicates the durable order record failed after capture.
	ErrKeyOrderRecordFailed = "error.order_record_failed"
)

// Success message translation keys.
const (
	// SuccessKeyCartUpdated indicates a successful cart mutation.
	SuccessKeyCartUpdated = "success.cart_updated"
	// SuccessKeyCheckoutConfirmed indicates a confirmed order.
	SuccessKeyCheckoutConfirmed = "success.checkout_confirmed"
)
