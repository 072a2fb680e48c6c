// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/farmbasket/checkout-service/internal/repository"
)

type MockEventsRepositoryInterface struct {
	mock.Mock
}

func (m *MockEventsRepositoryInterface) Create(ctx context.Context, event *repository.CheckoutEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventsRepositoryInterface) ListByOwner(ctx context.Context, ownerID string, limit int) ([]repository.CheckoutEvent, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CheckoutEvent), args.Error(1)
}
