// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/pkg/response"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	products *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

// GetProducts handles GET /products/getall?page&limit&category&minPrice&maxPrice
func (h *ProductHandler) GetProducts(c *gin.Context) {
	minPrice, ok := queryDecimal(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := queryDecimal(c, "maxPrice")
	if !ok {
		return
	}

	res, err := h.products.GetProducts(c.Request.Context(), &product.ProductListRequest{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Products fetched successfully")
}

// SearchProducts handles GET /products/search?query&page&limit
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	res, err := h.products.SearchProducts(c.Request.Context(), c.Query("query"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, res, "Search results fetched successfully")
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, p, "Product fetched successfully")
}

// CreateProduct handles POST /products/add and POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.ProductCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, p, "Product created successfully")
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req product.ProductUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, p, "Product updated successfully")
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	p, err := h.products.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, p, "Product deleted successfully")
}
