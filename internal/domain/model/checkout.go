package model

// CheckoutStep is the state of a checkout attempt.
type CheckoutStep string

const (
	// StepAddress is the initial step, collecting the delivery address.
	StepAddress CheckoutStep = "ADDRESS"
	// StepPaymentSelect holds the chosen payment method before confirmation.
	StepPaymentSelect CheckoutStep = "PAYMENT_SELECT"
	// StepProcessing means an order submission or gateway collection is in flight.
	StepProcessing CheckoutStep = "PROCESSING"
	// StepConfirmed is the terminal success state.
	StepConfirmed CheckoutStep = "CONFIRMED"
	// StepFailed is terminal for the attempt; confirm may be retried from
	// PAYMENT_SELECT without restarting at ADDRESS.
	StepFailed CheckoutStep = "FAILED"
)

// String returns the string representation of the step (for logging).
func (s CheckoutStep) String() string {
	return string(s)
}

// IsTerminal reports whether the step ends the checkout attempt.
func (s CheckoutStep) IsTerminal() bool {
	return s == StepConfirmed || s == StepFailed
}

// PaymentMethod selects how an order is paid for.
type PaymentMethod string

const (
	// PaymentCash is cash on delivery; the order is created directly.
	PaymentCash PaymentMethod = "cash"
	// PaymentOnline routes through the external payment gateway.
	PaymentOnline PaymentMethod = "online"
)

// Valid reports whether the payment method is one the service supports.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentOnline
}

// Address is the delivery address attached to a checkout attempt.
// It is never persisted independently by this service.
//
// @Description Delivery address captured during checkout
type Address struct {
	FullName    string `json:"full_name" bson:"full_name" example:"Asha Patil"`
	Phone       string `json:"phone" bson:"phone" example:"9876543210"`
	AddressLine string `json:"address_line" bson:"address_line" example:"14 Market Road"`
	City        string `json:"city" bson:"city" example:"Pune"`
	State       string `json:"state" bson:"state" example:"Maharashtra"`
	Zip         string `json:"zip" bson:"zip" example:"411001"`
	Country     string `json:"country" bson:"country" example:"India"`
}

// GatewayResult is the signed outcome the gateway's collection widget reports
// on success. It is untrusted input until verified server-side.
type GatewayResult struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}
