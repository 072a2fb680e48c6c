package model

import "time"

// OrderStatus mirrors the backend's order lifecycle. The authoritative order
// record lives server-side; this service only references it.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order is the service's view of a backend order record.
//
// @Description Reference to an order created by the storefront backend
type Order struct {
	// OrderID is the backend's order reference
	OrderID string `json:"order_id" bson:"order_id" example:"ord-8f3a"`
	// PaymentMethod is "cash" or "online"
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method" example:"cash"`
	Status        OrderStatus   `json:"status" bson:"status" example:"confirmed"`
	// Amount is the grand total charged, in minor currency units
	Amount int64 `json:"amount" bson:"amount" example:"220"`
	// GatewayPaymentID is set for online orders after verification
	GatewayPaymentID string     `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	Address          Address    `json:"address" bson:"address"`
	Lines            []CartLine `json:"lines" bson:"lines"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
}
