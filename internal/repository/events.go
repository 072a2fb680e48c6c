// Package repository provides data access for the checkout event log.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CheckoutEvent is one recorded checkout transition. Events carry the order
// or gateway reference when one exists so no failure is unattributable.
type CheckoutEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	FromStep  string             `bson:"from_step" json:"from_step"`
	ToStep    string             `bson:"to_step" json:"to_step"`
	OrderRef  string             `bson:"order_ref,omitempty" json:"order_ref,omitempty"`
	Detail    string             `bson:"detail,omitempty" json:"detail,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// EventsRepository provides methods for checkout event persistence.
type EventsRepository struct {
	collection *mongo.Collection
}

// NewEventsRepository creates a new events repository.
func NewEventsRepository(db *MongoDB) *EventsRepository {
	return &EventsRepository{
		collection: db.Events,
	}
}

// Create inserts a checkout event.
func (r *EventsRepository) Create(ctx context.Context, event *CheckoutEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// ListByOwner returns the owner's most recent checkout events.
func (r *EventsRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]CheckoutEvent, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var events []CheckoutEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
