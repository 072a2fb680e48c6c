package http

import (
	"github.com/gin-gonic/gin"

	"github.com/farmbasket/checkout-service/internal/middleware"
)

// CheckoutRoutes handles checkout route registration.
type CheckoutRoutes struct {
	handler *CheckoutHandler
}

// NewCheckoutRoutes creates a new CheckoutRoutes instance.
func NewCheckoutRoutes(handler *CheckoutHandler) *CheckoutRoutes {
	return &CheckoutRoutes{handler: handler}
}

// RegisterRoutes registers the checkout endpoints. The gateway callback
// surface is additionally guarded by API keys when configured, since it is
// called by the storefront frontend on the processor's behalf.
func (r *CheckoutRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	co := rg.Group("/checkout")
	co.POST("", r.handler.Begin)
	co.GET("", r.handler.State)
	co.POST("/address", r.handler.SubmitAddress)
	co.POST("/payment", r.handler.SelectPayment)
	co.POST("/back", r.handler.Back)
	co.POST("/confirm", r.handler.Confirm)

	gwGroup := co.Group("/gateway")
	if len(cfg.CallbackAPIKeys) > 0 {
		gwGroup.Use(middleware.APIKeyAuth(cfg.CallbackAPIKeys))
	}
	gwGroup.POST("/callback", r.handler.GatewayCallback)
	gwGroup.POST("/dismiss", r.handler.GatewayDismiss)
	gwGroup.POST("/failure", r.handler.GatewayFailure)
}
