// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/farmbasket/checkout-service/config"
	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
	"github.com/farmbasket/checkout-service/internal/repository"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB         *repository.MongoDB
	CartsRepo  repository.CartsRepositoryInterface
	EventsRepo repository.EventsRepositoryInterface

	CartsCircuitBreaker  *circuitbreaker.CircuitBreaker
	EventsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes the MongoDB connection and creates the cart
// and checkout event repositories. Returns nil if the database is disabled or
// the connection fails; the service then runs with in-memory carts only.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with in-memory carts")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	if err := db.SetEventsTTL(context.Background(), cfg.EventsTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to set checkout events TTL index (may already exist)")
	}

	cartsCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.CircuitBreaker.Timeout,
		Name:             "mongodb-carts",
	})
	eventsCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.CircuitBreaker.Timeout,
		Name:             "mongodb-events",
	})

	cartsRepo := repository.NewCartsRepositoryWithCircuitBreaker(repository.NewCartsRepository(db), cartsCB)
	eventsRepo := repository.NewEventsRepositoryWithCircuitBreaker(repository.NewEventsRepository(db), eventsCB)

	return &DatabaseComponents{
		DB:                   db,
		CartsRepo:            cartsRepo,
		EventsRepo:           eventsRepo,
		CartsCircuitBreaker:  cartsCB,
		EventsCircuitBreaker: eventsCB,
	}
}
