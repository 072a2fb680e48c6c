// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
)

// CartsRepositoryWithCircuitBreaker wraps CartsRepository with circuit breaker protection.
type CartsRepositoryWithCircuitBreaker struct {
	repo           *CartsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCartsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewCartsRepositoryWithCircuitBreaker(repo *CartsRepository, cb *circuitbreaker.CircuitBreaker) *CartsRepositoryWithCircuitBreaker {
	return &CartsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Get returns the owner's cart with circuit breaker protection.
func (r *CartsRepositoryWithCircuitBreaker) Get(ctx context.Context, ownerID string) (*CartDocument, error) {
	var result *CartDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Get(ctx, ownerID)
		return cbErr
	})
	return result, err
}

// Put replaces the owner's cart with circuit breaker protection. A rejected
// write leaves the server's last acknowledged document untouched.
func (r *CartsRepositoryWithCircuitBreaker) Put(ctx context.Context, doc *CartDocument) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Put(ctx, doc)
	})
}

// Delete removes the owner's cart with circuit breaker protection.
func (r *CartsRepositoryWithCircuitBreaker) Delete(ctx context.Context, ownerID string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Delete(ctx, ownerID)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *CartsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// EventsRepositoryWithCircuitBreaker wraps EventsRepository with circuit breaker protection.
type EventsRepositoryWithCircuitBreaker struct {
	repo           *EventsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewEventsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewEventsRepositoryWithCircuitBreaker(repo *EventsRepository, cb *circuitbreaker.CircuitBreaker) *EventsRepositoryWithCircuitBreaker {
	return &EventsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create inserts a checkout event with circuit breaker protection. When the
// circuit is open the event is dropped; transition recording is best effort
// and must not block a checkout.
func (r *EventsRepositoryWithCircuitBreaker) Create(ctx context.Context, event *CheckoutEvent) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, event)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// ListByOwner returns the owner's events with circuit breaker protection.
func (r *EventsRepositoryWithCircuitBreaker) ListByOwner(ctx context.Context, ownerID string, limit int) ([]CheckoutEvent, error) {
	var result []CheckoutEvent
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.ListByOwner(ctx, ownerID, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *EventsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
