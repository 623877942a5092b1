// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/payment"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// PaymentHandler handles payment intent endpoints
type PaymentHandler struct {
	payments *payment.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateIntent handles POST /payment/create-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req payment.CreateIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.payments.CreateIntent(c.Request.Context(), p, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Payment intent created")
}

// Confirm handles POST /payment/confirm. Succeeded intents answer 200,
// processing ones 202.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req payment.ConfirmRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.payments.Confirm(c.Request.Context(), p, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if res.Outcome == payment.OutcomeProcessing {
		response.JSON(c, http.StatusAccepted, res, "Payment is processing")
		return
	}
	response.JSON(c, http.StatusOK, res, "Payment successful")
}

// Status handles GET /payment/status/:paymentIntentId
func (h *PaymentHandler) Status(c *gin.Context) {
	res, err := h.payments.Status(c.Request.Context(), c.Param("paymentIntentId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Payment status fetched")
}
