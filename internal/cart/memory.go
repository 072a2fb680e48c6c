package cart

import (
	"context"
	"sync"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/pricing"
)

// MemoryStore is the guest cart implementation: local, mutex-guarded, no
// durability. Mutations take effect immediately.
type MemoryStore struct {
	mu    sync.Mutex
	lines []model.CartLine
	calc  *pricing.Calculator
}

// NewMemoryStore creates an empty in-process cart store.
func NewMemoryStore(calc *pricing.Calculator) *MemoryStore {
	return &MemoryStore{calc: calc}
}

// Get returns the current cart state.
func (s *MemoryStore) Get(_ context.Context) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

// Add inserts or increments a line, bounded by its captured stock.
func (s *MemoryStore) Add(_ context.Context, line model.CartLine) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line.OfferPercentage = pricing.ClampOffer(line.OfferPercentage)
	next, err := applyAdd(s.lines, line, time.Now())
	if err != nil {
		return s.state(), err
	}
	s.lines = next
	return s.state(), nil
}

// Remove deletes the line for the product.
func (s *MemoryStore) Remove(_ context.Context, productID string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := applyRemove(s.lines, productID)
	if err != nil {
		return s.state(), err
	}
	s.lines = next
	return s.state(), nil
}

// SetQuantity replaces a line's quantity; zero or below removes the line.
func (s *MemoryStore) SetQuantity(_ context.Context, productID string, quantity int) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := applySetQuantity(s.lines, productID, quantity)
	if err != nil {
		return s.state(), err
	}
	s.lines = next
	return s.state(), nil
}

// Clear empties the cart.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return nil
}

// Snapshot returns a deep copy of the cart.
func (s *MemoryStore) Snapshot(_ context.Context) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state().Clone(), nil
}

// state recomputes the aggregate from the full line list. Caller holds the lock.
func (s *MemoryStore) state() model.Cart {
	return model.Cart{
		Lines:     cloneLines(s.lines),
		Aggregate: s.calc.ComputeAggregate(s.lines),
	}
}
