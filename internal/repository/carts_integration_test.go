//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbasket/checkout-service/internal/domain/model"
)

func TestCartsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Use shared container with unique database name
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewCartsRepository(db)

	t.Run("get when no cart exists", func(t *testing.T) {
		doc, err := repo.Get(ctx, "user:absent")
		assert.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("put creates the cart", func(t *testing.T) {
		err := repo.Put(ctx, &CartDocument{
			OwnerID: "user:42",
			Lines: []model.CartLine{
				{ProductID: "p1", Name: "Organic Tomatoes 1kg", UnitPrice: 100, OfferPercentage: 10, Quantity: 2, StockQuantity: 25},
			},
			Aggregate: model.CartAggregate{TotalQuantity: 2, TotalPrice: 200, TotalDiscount: 20, NetPrice: 180, ShippingFee: 40, GrandTotal: 220},
		})
		require.NoError(t, err)

		doc, err := repo.Get(ctx, "user:42")
		require.NoError(t, err)
		require.NotNil(t, doc)
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, "p1", doc.Lines[0].ProductID)
		assert.Equal(t, int64(220), doc.Aggregate.GrandTotal)
		assert.False(t, doc.UpdatedAt.IsZero())
	})

	t.Run("put replaces the existing cart", func(t *testing.T) {
		err := repo.Put(ctx, &CartDocument{
			OwnerID: "user:42",
			Lines: []model.CartLine{
				{ProductID: "p2", Name: "Alphonso Mangoes 1kg", UnitPrice: 300, Quantity: 1, StockQuantity: 10},
			},
			Aggregate: model.CartAggregate{TotalQuantity: 1, TotalPrice: 300, NetPrice: 300, GrandTotal: 300},
		})
		require.NoError(t, err)

		doc, err := repo.Get(ctx, "user:42")
		require.NoError(t, err)
		require.NotNil(t, doc)
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, "p2", doc.Lines[0].ProductID)
	})

	t.Run("carts are isolated per owner", func(t *testing.T) {
		err := repo.Put(ctx, &CartDocument{OwnerID: "user:other"})
		require.NoError(t, err)

		doc, err := repo.Get(ctx, "user:42")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "user:42", doc.OwnerID)
	})

	t.Run("delete removes the cart", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "user:42"))

		doc, err := repo.Get(ctx, "user:42")
		assert.NoError(t, err)
		assert.Nil(t, doc)
	})
}
