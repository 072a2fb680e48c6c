// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farmbasket/checkout-service/config"
	"github.com/farmbasket/checkout-service/internal/http"
)

// Application bundles the wired router with the components that need an
// explicit shutdown.
type Application struct {
	Router  *gin.Engine
	cleanup []func()
}

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *Application {
	// Initialize logger first (needed by other components)
	InitializeLogger()

	// Initialize business services
	serviceComponents := InitializeServices(cfg.Pricing)

	// Initialize outbound clients (payment gateway, order backend, catalog)
	clientComponents := InitializeClients(cfg)

	// Initialize database components (MongoDB repositories)
	dbComponents := InitializeDatabase(cfg.Database)

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(serviceComponents, clientComponents, dbComponents, cfg)

	app := &Application{
		Router: http.NewRouter(
			routerComponents.CartHandler,
			routerComponents.CheckoutHandler,
			routerComponents.HealthHandler,
			routerComponents.Config,
		),
	}

	app.cleanup = append(app.cleanup, routerComponents.Manager.Close, routerComponents.Registry.Close)
	if dbComponents != nil {
		app.cleanup = append(app.cleanup, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = dbComponents.DB.Close(ctx)
		})
	}

	return app
}

// Close releases session state and database connections. Safe to call after
// the HTTP server has drained.
func (a *Application) Close() {
	for _, fn := range a.cleanup {
		fn()
	}
}
