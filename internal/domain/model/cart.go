// Package model defines the core domain entities for the checkout service.
package model

import "time"

// CartLine represents one product entry in a cart.
//
// UnitPrice and the offer percentage are a point-in-time copy taken when the
// product is added; later catalog price changes do not retroactively alter
// lines already in the cart.
//
// @Description One product entry in a cart with its own quantity and discount
type CartLine struct {
	// ProductID identifies the product this line was created from
	ProductID string `json:"product_id" bson:"product_id" example:"prod-42"`
	// Name is the product display name captured at add time
	Name string `json:"name" bson:"name" example:"Organic Tomatoes 1kg"`
	// UnitPrice is the per-unit price in minor currency units
	UnitPrice int64 `json:"unit_price" bson:"unit_price" example:"100"`
	// OfferPercentage is the discount percentage, clamped to [0,100]
	OfferPercentage int64 `json:"offer_percentage" bson:"offer_percentage" example:"10"`
	// Quantity is the number of units in the cart, always >= 1
	Quantity int `json:"quantity" bson:"quantity" example:"2"`
	// StockQuantity is the stock level captured at add time
	StockQuantity int `json:"stock_quantity" bson:"stock_quantity" example:"25"`
	// AddedAt records when the line was created
	AddedAt time.Time `json:"added_at" bson:"added_at"`
}

// CartAggregate holds the derived totals for an entire cart.
// It is always recomputed from the full line list, never patched in place.
//
// @Description Derived totals (subtotal, discount, net, shipping, grand total) for a cart
type CartAggregate struct {
	TotalQuantity int   `json:"total_quantity" bson:"total_quantity" example:"2"`
	TotalPrice    int64 `json:"total_price" bson:"total_price" example:"200"`
	TotalDiscount int64 `json:"total_discount" bson:"total_discount" example:"20"`
	NetPrice      int64 `json:"net_price" bson:"net_price" example:"180"`
	ShippingFee   int64 `json:"shipping_fee" bson:"shipping_fee" example:"40"`
	GrandTotal    int64 `json:"grand_total" bson:"grand_total" example:"220"`
}

// Cart is the full cart state exposed to callers: lines plus aggregate.
type Cart struct {
	Lines     []CartLine    `json:"lines" bson:"lines"`
	Aggregate CartAggregate `json:"aggregate" bson:"aggregate"`
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for the given product ID, if present.
func (c Cart) Line(productID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Clone returns a deep copy of the cart. Snapshots taken at checkout begin
// must not alias the live line slice.
func (c Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines, Aggregate: c.Aggregate}
}
