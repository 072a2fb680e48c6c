// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"regexp"
	"strings"

	"github.com/farmbasket/checkout-service/internal/domain/model"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	zipPattern   = regexp.MustCompile(`^\d{6}$`)
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AddItemRequest adds a product to the cart, carrying a point-in-time copy of
// the catalog price and offer.
//
// @Description Request to add a product to the cart
// @Example {"product_id": "prod-42", "name": "Organic Tomatoes 1kg", "unit_price": 100, "offer_percentage": 10, "stock_quantity": 25}
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"prod-42"`
	Name      string `json:"name" binding:"required" example:"Organic Tomatoes 1kg"`
	// UnitPrice is in minor currency units and must not be negative.
	UnitPrice int64 `json:"unit_price" binding:"min=0" example:"100" minimum:"0"`
	// OfferPercentage outside [0,100] is clamped, not rejected.
	OfferPercentage int64 `json:"offer_percentage" example:"10"`
	StockQuantity   int   `json:"stock_quantity" binding:"min=0" example:"25" minimum:"0"`
} // @name AddItemRequest

// Validate performs custom validation on the request.
func (r *AddItemRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return &ValidationError{Field: "product_id", Message: "must not be empty"}
	}
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if r.UnitPrice < 0 {
		return &ValidationError{Field: "unit_price", Message: "must not be negative"}
	}
	if r.StockQuantity < 0 {
		return &ValidationError{Field: "stock_quantity", Message: "must not be negative"}
	}
	return nil
}

// Line converts the request into a cart line with a clamped offer.
func (r *AddItemRequest) Line() model.CartLine {
	offer := r.OfferPercentage
	if offer < 0 {
		offer = 0
	}
	if offer > 100 {
		offer = 100
	}
	return model.CartLine{
		ProductID:       r.ProductID,
		Name:            r.Name,
		UnitPrice:       r.UnitPrice,
		OfferPercentage: offer,
		StockQuantity:   r.StockQuantity,
	}
}

// SetQuantityRequest replaces a line's quantity. Zero or below removes the
// line; a quantity above the captured stock is rejected, not clamped.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" example:"3"`
} // @name SetQuantityRequest

// AddressRequest carries the delivery address for the checkout ADDRESS step.
//
// @Description Delivery address submission
type AddressRequest struct {
	FullName    string `json:"full_name" example:"Asha Patil"`
	Phone       string `json:"phone" example:"9876543210"`
	AddressLine string `json:"address_line" example:"14 Market Road"`
	City        string `json:"city" example:"Pune"`
	State       string `json:"state" example:"Maharashtra"`
	Zip         string `json:"zip" example:"411001"`
	Country     string `json:"country" example:"India"`
} // @name AddressRequest

// Validate checks all required fields and reports the first failing field, in
// a stable order, rather than a generic message.
func (r *AddressRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return &ValidationError{Field: "full_name", Message: "must not be empty"}
	}
	if !phonePattern.MatchString(r.Phone) {
		return &ValidationError{Field: "phone", Message: "must be exactly 10 digits"}
	}
	if strings.TrimSpace(r.AddressLine) == "" {
		return &ValidationError{Field: "address_line", Message: "must not be empty"}
	}
	if strings.TrimSpace(r.City) == "" {
		return &ValidationError{Field: "city", Message: "must not be empty"}
	}
	if strings.TrimSpace(r.State) == "" {
		return &ValidationError{Field: "state", Message: "must not be empty"}
	}
	if !zipPattern.MatchString(r.Zip) {
		return &ValidationError{Field: "zip", Message: "must be exactly 6 digits"}
	}
	return nil
}

// Address converts the request into the domain address.
func (r *AddressRequest) Address() model.Address {
	country := strings.TrimSpace(r.Country)
	if country == "" {
		country = "India"
	}
	return model.Address{
		FullName:    strings.TrimSpace(r.FullName),
		Phone:       r.Phone,
		AddressLine: strings.TrimSpace(r.AddressLine),
		City:        strings.TrimSpace(r.City),
		State:       strings.TrimSpace(r.State),
		Zip:         r.Zip,
		Country:     country,
	}
}

// SelectPaymentRequest chooses the payment method during PAYMENT_SELECT.
type SelectPaymentRequest struct {
	Method string `json:"method" binding:"required" example:"online" enums:"cash,online"`
} // @name SelectPaymentRequest

// Validate checks the payment method value.
func (r *SelectPaymentRequest) Validate() error {
	if !model.PaymentMethod(r.Method).Valid() {
		return &ValidationError{Field: "method", Message: "must be \"cash\" or \"online\""}
	}
	return nil
}

// GatewayCallbackRequest carries the gateway widget's signed success payload.
type GatewayCallbackRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
} // @name GatewayCallbackRequest

// Result converts the callback into the domain gateway result.
func (r *GatewayCallbackRequest) Result() model.GatewayResult {
	return model.GatewayResult{
		GatewayOrderID:   r.GatewayOrderID,
		GatewayPaymentID: r.GatewayPaymentID,
		Signature:        r.Signature,
	}
}

// GatewayDismissRequest reports that the buyer closed the gateway widget
// without paying.
type GatewayDismissRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
} // @name GatewayDismissRequest

// GatewayFailureRequest carries the gateway's payment.failed event.
type GatewayFailureRequest struct {
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	Reason         string `json:"reason" example:"card declined"`
} // @name GatewayFailureRequest
