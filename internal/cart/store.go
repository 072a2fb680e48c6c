// Package cart implements the cart store: an ordered collection of cart lines
// whose aggregate is recomputed from the full line list on every mutation.
// Two backing implementations share identical mutation semantics: an
// in-process store for guest carts and a MongoDB-backed store for
// authenticated carts.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
)

var (
	// ErrLineNotFound is returned when a mutation targets a product that has
	// no line in the cart.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrStockLimit is returned when a mutation would push a line's quantity
	// beyond the captured stock. The cart is left untouched.
	ErrStockLimit = errors.New("quantity exceeds available stock")
)

// Store is the single mutation surface for a cart. Implementations recompute
// the aggregate from the current line list on every mutation; aggregates are
// never patched incrementally.
type Store interface {
	// Get returns the current cart state.
	Get(ctx context.Context) (model.Cart, error)
	// Add inserts a new line with quantity 1, or increments an existing
	// line's quantity bounded by its captured stock. At the stock cap the
	// cart is unchanged and ErrStockLimit is returned alongside the current
	// state.
	Add(ctx context.Context, line model.CartLine) (model.Cart, error)
	// Remove deletes the line for the product.
	Remove(ctx context.Context, productID string) (model.Cart, error)
	// SetQuantity replaces a line's quantity. Zero or below removes the
	// line; above the captured stock is rejected with ErrStockLimit.
	SetQuantity(ctx context.Context, productID string, quantity int) (model.Cart, error)
	// Clear empties the cart. Used only after a confirmed order.
	Clear(ctx context.Context) error
	// Snapshot returns a deep copy safe to hold across a checkout attempt.
	Snapshot(ctx context.Context) (model.Cart, error)
}

// applyAdd is the shared add reducer. Returns the new line list, or
// ErrStockLimit with the input untouched when the line is already at its
// stock cap.
func applyAdd(lines []model.CartLine, line model.CartLine, now time.Time) ([]model.CartLine, error) {
	for i, l := range lines {
		if l.ProductID != line.ProductID {
			continue
		}
		if l.Quantity >= l.StockQuantity {
			return lines, ErrStockLimit
		}
		next := cloneLines(lines)
		next[i].Quantity++
		return next, nil
	}

	line.Quantity = 1
	line.AddedAt = now
	if line.StockQuantity < 1 {
		return lines, ErrStockLimit
	}
	next := cloneLines(lines)
	return append(next, line), nil
}

// applyRemove is the shared remove reducer.
func applyRemove(lines []model.CartLine, productID string) ([]model.CartLine, error) {
	for i, l := range lines {
		if l.ProductID == productID {
			next := cloneLines(lines)
			return append(next[:i], next[i+1:]...), nil
		}
	}
	return lines, ErrLineNotFound
}

// applySetQuantity is the shared set-quantity reducer. Quantities above the
// captured stock are rejected, never silently clamped.
func applySetQuantity(lines []model.CartLine, productID string, quantity int) ([]model.CartLine, error) {
	if quantity <= 0 {
		return applyRemove(lines, productID)
	}
	for i, l := range lines {
		if l.ProductID != productID {
			continue
		}
		if quantity > l.StockQuantity {
			return lines, ErrStockLimit
		}
		next := cloneLines(lines)
		next[i].Quantity = quantity
		return next, nil
	}
	return lines, ErrLineNotFound
}

func cloneLines(lines []model.CartLine) []model.CartLine {
	next := make([]model.CartLine, len(lines))
	copy(next, lines)
	return next
}
