// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	orders *order.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Checkout handles POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req order.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.orders.Checkout(c.Request.Context(), p, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, o, "Order created successfully")
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	res, err := h.orders.GetUserOrders(c.Request.Context(), p.ID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Orders fetched successfully")
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	o, err := h.orders.GetUserOrder(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, o, "Order fetched successfully")
}

// GenerateInvoice handles GET /orders/:id/invoice
func (h *OrderHandler) GenerateInvoice(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	pdf, o, err := h.orders.GetInvoice(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=invoice-"+o.OrderNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// AdminGetOrders handles GET /admin/orders?status&page&limit
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	res, err := h.orders.GetOrders(c.Request.Context(), c.Query("status"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Orders fetched successfully")
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, o, "Order fetched successfully")
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, o, "Order status updated")
}
