// internal/domain/inventory/entity.go
package inventory

import (
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopspring/decimal"
)

// Default bounds of the quality-control and price-range reports.
const (
	DefaultMinRating = 0
	DefaultMaxRating = 3
	DefaultMaxPrice  = 1000000
)

// CategorySummary is one row of the inventory summary
type CategorySummary struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

// Summary represents the whole catalog at a glance
type Summary struct {
	TotalProducts       int               `json:"totalProducts"`
	TotalInventoryValue decimal.Decimal   `json:"totalInventoryValue"`
	CategorySummary     []CategorySummary `json:"categorySummary"`
	AllProducts         []product.Product `json:"allProducts"`
}

// CategoryInventory groups the products of one category
type CategoryInventory struct {
	Category      string            `json:"category"`
	Products      []product.Product `json:"products"`
	TotalProducts int64             `json:"totalProducts"`
	TotalValue    decimal.Decimal   `json:"totalValue"`
	AvgPrice      decimal.Decimal   `json:"avgPrice"`
	MinPrice      decimal.Decimal   `json:"minPrice"`
	MaxPrice      decimal.Decimal   `json:"maxPrice"`
}

// RatingRangeRequest bounds the low-rating report. Nil means default.
type RatingRangeRequest struct {
	MinRating *float64
	MaxRating *float64
}

// PriceRangeRequest bounds the price-range report. Nil means default.
type PriceRangeRequest struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// PriceRange represents products inside a price window
type PriceRange struct {
	MinPrice        decimal.Decimal   `json:"minPrice"`
	MaxPrice        decimal.Decimal   `json:"maxPrice"`
	ProductsInRange int               `json:"productsInRange"`
	Products        []product.Product `json:"products"`
}
