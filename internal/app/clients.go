// Package app provides outbound client initialization.
package app

import (
	"github.com/farmbasket/checkout-service/config"
	"github.com/farmbasket/checkout-service/internal/catalog"
	"github.com/farmbasket/checkout-service/internal/circuitbreaker"
	"github.com/farmbasket/checkout-service/internal/gateway"
	"github.com/farmbasket/checkout-service/internal/orders"
)

// ClientComponents holds clients for the external services the checkout
// depends on: the payment gateway proxy and the storefront order backend.
type ClientComponents struct {
	Gateway *gateway.Client
	Orders  *orders.Client
	Stock   *catalog.StockClient

	GatewayBreaker *circuitbreaker.CircuitBreaker
	BackendBreaker *circuitbreaker.CircuitBreaker
}

// InitializeClients initializes the outbound HTTP clients. Each remote is
// wrapped in its own circuit breaker so a gateway outage does not trip calls
// to the order backend.
func InitializeClients(cfg config.Config) *ClientComponents {
	gatewayCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.Gateway.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.Gateway.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.Gateway.CircuitBreaker.Timeout,
		Name:             "payment-gateway",
	})
	backendCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.Backend.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.Backend.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.Backend.CircuitBreaker.Timeout,
		Name:             "order-backend",
	})

	return &ClientComponents{
		Gateway: gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout,
			gateway.WithCircuitBreaker(gatewayCB),
			gateway.WithCredentialTTL(cfg.Gateway.CredentialTTL),
		),
		Orders: orders.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout,
			orders.WithCircuitBreaker(backendCB),
		),
		Stock: catalog.NewStockClient(cfg.Backend.BaseURL, cfg.Backend.Timeout,
			catalog.WithCircuitBreaker(backendCB),
		),
		GatewayBreaker: gatewayCB,
		BackendBreaker: backendCB,
	}
}
