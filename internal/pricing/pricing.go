// Package pricing implements the cart pricing engine: per-line and aggregate
// totals plus the shipping-fee step function. All computations are pure and
// deterministic over int64 minor currency units; rounding happens once per
// derived figure, never mid-computation.
package pricing

import "github.com/farmbasket/checkout-service/internal/domain/model"

const (
	// DefaultShippingFee is the flat delivery fee, in minor units, charged
	// below the free-shipping threshold.
	DefaultShippingFee int64 = 40
	// DefaultFreeShippingThreshold is the net price, in minor units, at or
	// above which shipping is free.
	DefaultFreeShippingThreshold int64 = 200
)

// LineTotals holds the derived figures for a single cart line.
type LineTotals struct {
	// DiscountedUnit is the effective per-unit price after the offer.
	DiscountedUnit int64 `json:"discounted_unit"`
	// LineDiscount is the total discount across the line's quantity.
	LineDiscount int64 `json:"line_discount"`
	// LineTotal is unit price times quantity, before discount.
	LineTotal int64 `json:"line_total"`
}

// Calculator computes cart totals. The zero value is not usable; construct
// with NewCalculator.
type Calculator struct {
	shippingFee           int64
	freeShippingThreshold int64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithShippingFee sets the flat shipping fee in minor units.
func WithShippingFee(fee int64) Option {
	return func(c *Calculator) {
		if fee >= 0 {
			c.shippingFee = fee
		}
	}
}

// WithFreeShippingThreshold sets the net price at which shipping becomes free.
func WithFreeShippingThreshold(threshold int64) Option {
	return func(c *Calculator) {
		if threshold >= 0 {
			c.freeShippingThreshold = threshold
		}
	}
}

// NewCalculator creates a Calculator with the given options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		shippingFee:           DefaultShippingFee,
		freeShippingThreshold: DefaultFreeShippingThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClampOffer clamps an offer percentage to [0,100].
func ClampOffer(offer int64) int64 {
	if offer < 0 {
		return 0
	}
	if offer > 100 {
		return 100
	}
	return offer
}

// ComputeLine derives the totals for a single line. An offer of 0 yields a
// discount of exactly 0.
func (c *Calculator) ComputeLine(line model.CartLine) LineTotals {
	offer := ClampOffer(line.OfferPercentage)
	qty := int64(line.Quantity)

	lineTotal := line.UnitPrice * qty
	lineDiscount := roundPercent(line.UnitPrice*qty, offer)
	discountedUnit := line.UnitPrice - roundPercent(line.UnitPrice, offer)

	return LineTotals{
		DiscountedUnit: discountedUnit,
		LineDiscount:   lineDiscount,
		LineTotal:      lineTotal,
	}
}

// ComputeAggregate derives the full cart aggregate from a line list.
// Invariants: totalPrice = sum(unitPrice*quantity), netPrice = totalPrice -
// totalDiscount, grandTotal = netPrice + shippingFee. An empty cart has a
// zero aggregate, including shipping.
func (c *Calculator) ComputeAggregate(lines []model.CartLine) model.CartAggregate {
	var agg model.CartAggregate
	if len(lines) == 0 {
		return agg
	}

	for _, line := range lines {
		totals := c.ComputeLine(line)
		agg.TotalQuantity += line.Quantity
		agg.TotalPrice += totals.LineTotal
		agg.TotalDiscount += totals.LineDiscount
	}

	agg.NetPrice = agg.TotalPrice - agg.TotalDiscount
	agg.ShippingFee = c.ShippingFee(agg.NetPrice)
	agg.GrandTotal = agg.NetPrice + agg.ShippingFee
	return agg
}

// ShippingFee is the step function over net price: a flat fee below the
// free-shipping threshold, zero at or above it.
func (c *Calculator) ShippingFee(netPrice int64) int64 {
	if netPrice >= c.freeShippingThreshold {
		return 0
	}
	return c.shippingFee
}

// roundPercent computes amount*percent/100 with half-up rounding at the
// boundary. percent must already be clamped to [0,100].
func roundPercent(amount, percent int64) int64 {
	if percent == 0 {
		return 0
	}
	return (amount*percent + 50) / 100
}
