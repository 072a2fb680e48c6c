package cart

import (
	"context"
	"time"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/pricing"
	"github.com/farmbasket/checkout-service/internal/repository"
)

// MongoStore is the authenticated cart implementation. A mutation is durable
// only once the repository write is acknowledged; on a rejected write the
// server keeps the last acknowledged document and the same mutation may be
// re-issued (mutations are idempotent by product ID).
type MongoStore struct {
	ownerID string
	repo    repository.CartsRepositoryInterface
	calc    *pricing.Calculator
}

// NewMongoStore creates a server-backed cart store for one owner.
func NewMongoStore(ownerID string, repo repository.CartsRepositoryInterface, calc *pricing.Calculator) *MongoStore {
	return &MongoStore{
		ownerID: ownerID,
		repo:    repo,
		calc:    calc,
	}
}

// Get returns the last acknowledged cart state.
func (s *MongoStore) Get(ctx context.Context) (model.Cart, error) {
	lines, err := s.load(ctx)
	if err != nil {
		return model.Cart{}, err
	}
	return s.state(lines), nil
}

// Add inserts or increments a line, bounded by its captured stock.
func (s *MongoStore) Add(ctx context.Context, line model.CartLine) (model.Cart, error) {
	lines, err := s.load(ctx)
	if err != nil {
		return model.Cart{}, err
	}

	line.OfferPercentage = pricing.ClampOffer(line.OfferPercentage)
	next, err := applyAdd(lines, line, time.Now())
	if err != nil {
		return s.state(lines), err
	}
	return s.persist(ctx, lines, next)
}

// Remove deletes the line for the product.
func (s *MongoStore) Remove(ctx context.Context, productID string) (model.Cart, error) {
	lines, err := s.load(ctx)
	if err != nil {
		return model.Cart{}, err
	}

	next, err := applyRemove(lines, productID)
	if err != nil {
		return s.state(lines), err
	}
	return s.persist(ctx, lines, next)
}

// SetQuantity replaces a line's quantity; zero or below removes the line.
func (s *MongoStore) SetQuantity(ctx context.Context, productID string, quantity int) (model.Cart, error) {
	lines, err := s.load(ctx)
	if err != nil {
		return model.Cart{}, err
	}

	next, err := applySetQuantity(lines, productID, quantity)
	if err != nil {
		return s.state(lines), err
	}
	return s.persist(ctx, lines, next)
}

// Clear empties the cart.
func (s *MongoStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.ownerID)
}

// Snapshot returns a deep copy of the last acknowledged cart state.
func (s *MongoStore) Snapshot(ctx context.Context) (model.Cart, error) {
	c, err := s.Get(ctx)
	if err != nil {
		return model.Cart{}, err
	}
	return c.Clone(), nil
}

func (s *MongoStore) load(ctx context.Context) ([]model.CartLine, error) {
	doc, err := s.repo.Get(ctx, s.ownerID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return doc.Lines, nil
}

// persist writes the mutated line list. If the write is rejected the prior
// (last acknowledged) state is returned with the error so callers can roll
// back their view.
func (s *MongoStore) persist(ctx context.Context, prev, next []model.CartLine) (model.Cart, error) {
	agg := s.calc.ComputeAggregate(next)
	doc := &repository.CartDocument{
		OwnerID:   s.ownerID,
		Lines:     next,
		Aggregate: agg,
	}
	if err := s.repo.Put(ctx, doc); err != nil {
		return s.state(prev), err
	}
	return model.Cart{Lines: cloneLines(next), Aggregate: agg}, nil
}

func (s *MongoStore) state(lines []model.CartLine) model.Cart {
	return model.Cart{
		Lines:     cloneLines(lines),
		Aggregate: s.calc.ComputeAggregate(lines),
	}
}
