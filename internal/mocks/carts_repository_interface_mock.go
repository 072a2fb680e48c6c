// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/farmbasket/checkout-service/internal/repository"
)

type MockCartsRepositoryInterface struct {
	mock.Mock
}

func (m *MockCartsRepositoryInterface) Get(ctx context.Context, ownerID string) (*repository.CartDocument, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CartDocument), args.Error(1)
}

func (m *MockCartsRepositoryInterface) Put(ctx context.Context, doc *repository.CartDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockCartsRepositoryInterface) Delete(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}
