// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/inventory"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// InventoryHandler serves the admin inventory reports
type InventoryHandler struct {
	inventory *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{inventory: svc}
}

// GetSummary handles GET /admin/inventory/summary
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	summary, err := h.inventory.GetSummary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, summary, "Inventory summary fetched successfully")
}

// GetCategoryInventory handles GET /admin/inventory/category
func (h *InventoryHandler) GetCategoryInventory(c *gin.Context) {
	categories, err := h.inventory.GetCategoryInventory(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, categories, "Category inventory fetched successfully")
}

// GetLowRatingProducts handles GET /admin/inventory/low-rating?minRating&maxRating
func (h *InventoryHandler) GetLowRatingProducts(c *gin.Context) {
	minRating, ok := queryFloat(c, "minRating")
	if !ok {
		return
	}
	maxRating, ok := queryFloat(c, "maxRating")
	if !ok {
		return
	}

	products, err := h.inventory.GetLowRatingProducts(c.Request.Context(), inventory.RatingRangeRequest{
		MinRating: minRating,
		MaxRating: maxRating,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, products, "Low rating products fetched successfully")
}

// GetProductsByPriceRange handles GET /admin/inventory/price-range?minPrice&maxPrice
func (h *InventoryHandler) GetProductsByPriceRange(c *gin.Context) {
	minPrice, ok := queryDecimal(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := queryDecimal(c, "maxPrice")
	if !ok {
		return
	}

	res, err := h.inventory.GetProductsByPriceRange(c.Request.Context(), inventory.PriceRangeRequest{
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Products by price range fetched successfully")
}
