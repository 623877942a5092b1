// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// CartHandler handles the caller's cart
type CartHandler struct {
	carts *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	view, err := h.carts.GetCart(c.Request.Context(), p.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, view, "Cart fetched successfully")
}

// AddToCart handles POST /cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req cart.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	crt, err := h.carts.AddToCart(c.Request.Context(), p.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, crt, "Item added to cart")
}

// UpdateCartItem handles PUT /cart/update
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req cart.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	crt, err := h.carts.UpdateCartItem(c.Request.Context(), p.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, crt, "Cart updated")
}

// RemoveFromCart handles POST /cart/remove
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"productId"`
	}
	if !bindJSON(c, &req) {
		return
	}

	crt, err := h.carts.RemoveFromCart(c.Request.Context(), p.ID, req.ProductID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, crt, "Item removed from cart")
}

// ClearCart handles POST /cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	crt, err := h.carts.ClearCart(c.Request.Context(), p.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, crt, "Cart cleared")
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	count, err := h.carts.GetCartCount(c.Request.Context(), p.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"cartCount": count}, "Cart count fetched")
}

// GetCartSummary handles GET /cart/summary
func (h *CartHandler) GetCartSummary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	summary, err := h.carts.GetCartSummary(c.Request.Context(), p.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, summary, "Cart summary fetched")
}
