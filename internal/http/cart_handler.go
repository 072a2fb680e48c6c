// Package http provides the HTTP handlers and router for the checkout service.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmbasket/checkout-service/internal/cart"
	"github.com/farmbasket/checkout-service/internal/domain/dto"
	"github.com/farmbasket/checkout-service/internal/i18n"
	"github.com/farmbasket/checkout-service/internal/metrics"
	"github.com/farmbasket/checkout-service/internal/middleware"
)

// CartHandler provides HTTP handlers for cart routes.
type CartHandler struct {
	registry *cart.Registry
}

// NewCartHandler creates a new CartHandler instance.
func NewCartHandler(registry *cart.Registry) *CartHandler {
	return &CartHandler{registry: registry}
}

func (h *CartHandler) store(c *gin.Context) cart.Store {
	return h.registry.ForOwner(middleware.GetOwnerID(c), middleware.IsAuthenticated(c))
}

// respondCartError maps a cart mutation error onto an HTTP response.
func respondCartError(builder *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, cart.ErrStockLimit):
		builder.ErrorCoded(http.StatusConflict, dto.ErrCodeStockLimit, i18n.ErrKeyStockLimit, "", err)
	case errors.Is(err, cart.ErrLineNotFound):
		builder.ErrorCoded(http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyLineNotFound, "", err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// GetCart handles GET /api/cart requests.
//
// @Summary      Get cart
// @Description  Returns the caller's cart: lines plus the derived aggregate (subtotal, discount, net price, shipping fee, grand total).
// @Tags         Cart
// @Produce      json
// @Param        Authorization header string false "Bearer token for a durable cart"
// @Param        X-Cart-Session header string false "Guest cart session ID"
// @Success      200 {object} dto.SuccessResponse "Current cart state"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	state, err := h.store(c).Get(c.Request.Context())
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	builder.SuccessOK(state)
}

// AddItem handles POST /api/cart/items requests.
//
// @Summary      Add item to cart
// @Description  Adds a product with quantity 1, or increments an existing line bounded by its captured stock. The price and offer are captured at add time. An offer percentage outside [0,100] is clamped. At the stock cap the cart is unchanged and the stock-limit condition is reported.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        request body dto.AddItemRequest true "Product to add"
// @Success      200 {object} dto.SuccessResponse "Updated cart state"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      409 {object} dto.ErrorResponse "Conflict - stock limit reached"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.AddItemRequest](c)
	if err != nil {
		metrics.RecordCartMutation("add", "validation_error")
		builder.ErrorWithMessage(http.StatusBadRequest, err.Error(), err)
		return
	}

	state, err := h.store(c).Add(c.Request.Context(), req.Line())
	if err != nil {
		metrics.RecordCartMutation("add", "error")
		respondCartError(builder, err)
		return
	}

	metrics.RecordCartMutation("add", "success")
	builder.SuccessOK(state)
}

// SetQuantity handles PUT /api/cart/items/:productId requests.
//
// @Summary      Set line quantity
// @Description  Replaces a line's quantity. Zero or below removes the line. A quantity above the captured stock is rejected, not clamped.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        request body dto.SetQuantityRequest true "New quantity"
// @Success      200 {object} dto.SuccessResponse "Updated cart state"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Not found - no such cart line"
// @Failure      409 {object} dto.ErrorResponse "Conflict - stock limit reached"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.SetQuantityRequest](c)
	if err != nil {
		metrics.RecordCartMutation("set_quantity", "validation_error")
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	productID := c.Param("productId")
	state, err := h.store(c).SetQuantity(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		metrics.RecordCartMutation("set_quantity", "error")
		respondCartError(builder, err)
		return
	}

	metrics.RecordCartMutation("set_quantity", "success")
	builder.SuccessOK(state)
}

// RemoveItem handles DELETE /api/cart/items/:productId requests.
//
// @Summary      Remove item from cart
// @Description  Deletes the cart line for the given product.
// @Tags         Cart
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.SuccessResponse "Updated cart state"
// @Failure      404 {object} dto.ErrorResponse "Not found - no such cart line"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	state, err := h.store(c).Remove(c.Request.Context(), c.Param("productId"))
	if err != nil {
		metrics.RecordCartMutation("remove", "error")
		respondCartError(builder, err)
		return
	}

	metrics.RecordCartMutation("remove", "success")
	builder.SuccessOK(state)
}

// ClearCart handles DELETE /api/cart requests.
//
// @Summary      Clear cart
// @Description  Empties the caller's cart.
// @Tags         Cart
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Empty cart state"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	store := h.store(c)
	if err := store.Clear(c.Request.Context()); err != nil {
		metrics.RecordCartMutation("clear", "error")
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	state, err := store.Get(c.Request.Context())
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	metrics.RecordCartMutation("clear", "success")
	builder.SuccessOK(state)
}
