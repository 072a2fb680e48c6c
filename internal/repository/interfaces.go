// Package repository provides interfaces for repository operations.
package repository

import "context"

// CartsRepositoryInterface defines the interface for cart persistence.
type CartsRepositoryInterface interface {
	Get(ctx context.Context, ownerID string) (*CartDocument, error)
	Put(ctx context.Context, doc *CartDocument) error
	Delete(ctx context.Context, ownerID string) error
}

// EventsRepositoryInterface defines the interface for checkout event persistence.
type EventsRepositoryInterface interface {
	Create(ctx context.Context, event *CheckoutEvent) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]CheckoutEvent, error)
}
