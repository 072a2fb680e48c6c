// Package app provides router configuration.
package app

import (
	"github.com/farmbasket/checkout-service/config"
	"github.com/farmbasket/checkout-service/internal/cart"
	"github.com/farmbasket/checkout-service/internal/checkout"
	"github.com/farmbasket/checkout-service/internal/gateway"
	"github.com/farmbasket/checkout-service/internal/http"
	"github.com/farmbasket/checkout-service/internal/repository"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	CartHandler     *http.CartHandler
	CheckoutHandler *http.CheckoutHandler
	HealthHandler   *http.HealthHandler
	Registry        *cart.Registry
	Manager         *checkout.Manager
	Config          http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	clients *ClientComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var cartsRepo repository.CartsRepositoryInterface
	var recorder checkout.EventRecorder
	if dbComponents != nil {
		cartsRepo = dbComponents.CartsRepo
		recorder = checkout.NewMongoEventRecorder(dbComponents.EventsRepo)
	}

	registry := cart.NewRegistry(services.Calculator, cartsRepo)

	manager := checkout.NewManager(checkout.ManagerDeps{
		Gateway:         clients.Gateway,
		Collector:       gateway.NewCollector(),
		Orders:          clients.Orders,
		Stock:           clients.Stock,
		Recorder:        recorder,
		SignatureSecret: cfg.Gateway.KeySecret,
	})

	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterCircuitBreaker("payment_gateway", clients.GatewayBreaker)
	healthHandler.RegisterCircuitBreaker("order_backend", clients.BackendBreaker)
	if dbComponents != nil {
		healthHandler.RegisterChecker("mongodb", dbComponents.DB)
		healthHandler.RegisterCircuitBreaker("mongodb_carts", dbComponents.CartsCircuitBreaker)
		healthHandler.RegisterCircuitBreaker("mongodb_events", dbComponents.EventsCircuitBreaker)
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		JWTSecret:         cfg.Auth.JWTSecretKey,
		CallbackAPIKeys:   cfg.Gateway.CallbackKeys,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
	}

	return &RouterComponents{
		CartHandler:     http.NewCartHandler(registry),
		CheckoutHandler: http.NewCheckoutHandler(manager, registry),
		HealthHandler:   healthHandler,
		Registry:        registry,
		Manager:         manager,
		Config:          routerCfg,
	}
}
