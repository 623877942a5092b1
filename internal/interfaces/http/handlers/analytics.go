// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/analytics"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// AnalyticsHandler serves the admin dashboard
type AnalyticsHandler struct {
	analytics *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

// GetDashboardStats handles GET /admin/dashboard/stats
func (h *AnalyticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.analytics.GetDashboardStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, stats, "Dashboard stats fetched successfully")
}
