// Package repository provides data access for authenticated carts.
package repository

import (
	"context"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartDocument is the persisted form of an authenticated cart.
type CartDocument struct {
	OwnerID   string              `bson:"owner_id" json:"owner_id"`
	Lines     []model.CartLine    `bson:"lines" json:"lines"`
	Aggregate model.CartAggregate `bson:"aggregate" json:"aggregate"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// CartsRepository provides methods for cart persistence.
type CartsRepository struct {
	collection *mongo.Collection
}

// NewCartsRepository creates a new carts repository.
func NewCartsRepository(db *MongoDB) *CartsRepository {
	return &CartsRepository{
		collection: db.Carts,
	}
}

// Get returns the cart for the owner, or nil if none exists.
func (r *CartsRepository) Get(ctx context.Context, ownerID string) (*CartDocument, error) {
	var doc CartDocument
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put replaces the owner's cart, creating it if absent. The write is the
// durability point for a cart mutation: until it is acknowledged the server's
// previous document remains the last acknowledged state.
func (r *CartsRepository) Put(ctx context.Context, doc *CartDocument) error {
	doc.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"owner_id": doc.OwnerID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete removes the owner's cart entirely.
func (r *CartsRepository) Delete(ctx context.Context, ownerID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"owner_id": ownerID})
	return err
}
