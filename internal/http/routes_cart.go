package http

import (
	"github.com/gin-gonic/gin"
)

// CartRoutes handles cart route registration.
type CartRoutes struct {
	handler *CartHandler
}

// NewCartRoutes creates a new CartRoutes instance.
func NewCartRoutes(handler *CartHandler) *CartRoutes {
	return &CartRoutes{handler: handler}
}

// RegisterRoutes registers the cart endpoints.
func (r *CartRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	cart := rg.Group("/cart")
	cart.GET("", r.handler.GetCart)
	cart.DELETE("", r.handler.ClearCart)
	cart.POST("/items", r.handler.AddItem)
	cart.PUT("/items/:productId", r.handler.SetQuantity)
	cart.DELETE("/items/:productId", r.handler.RemoveItem)
}
