// internal/domain/inventory/service.go
package inventory

import (
	"context"

	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Service handles inventory reporting over the catalog
type Service struct {
	products product.Repository
}

// NewService creates a new inventory service
func NewService(products product.Repository) *Service {
	return &Service{products: products}
}

// GetSummary returns catalog totals and a per-category breakdown.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	all, _, err := s.products.List(ctx, product.Filter{})
	if err != nil {
		return nil, apperror.Unexpected("Failed to load products", err)
	}
	stats, err := s.products.CategoryStats(ctx)
	if err != nil {
		return nil, apperror.Unexpected("Failed to aggregate categories", err)
	}

	summary := &Summary{
		TotalProducts:       len(all),
		TotalInventoryValue: decimal.Zero,
		CategorySummary:     make([]CategorySummary, 0, len(stats)),
		AllProducts:         nonNil(all),
	}
	for _, p := range all {
		summary.TotalInventoryValue = summary.TotalInventoryValue.Add(p.Price)
	}
	for _, st := range stats {
		summary.CategorySummary = append(summary.CategorySummary, CategorySummary{
			Category: st.Category,
			Count:    st.Count,
			AvgPrice: money.Round2(st.AvgPrice),
		})
	}

	return summary, nil
}

// GetCategoryInventory returns every category with its products, largest
// category first.
func (s *Service) GetCategoryInventory(ctx context.Context) ([]CategoryInventory, error) {
	stats, err := s.products.CategoryStats(ctx)
	if err != nil {
		return nil, apperror.Unexpected("Failed to aggregate categories", err)
	}
	all, _, err := s.products.List(ctx, product.Filter{})
	if err != nil {
		return nil, apperror.Unexpected("Failed to load products", err)
	}

	byCategory := make(map[string][]product.Product, len(stats))
	for _, p := range all {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	result := make([]CategoryInventory, 0, len(stats))
	for _, st := range stats {
		result = append(result, CategoryInventory{
			Category:      st.Category,
			Products:      nonNil(byCategory[st.Category]),
			TotalProducts: st.Count,
			TotalValue:    st.TotalValue,
			AvgPrice:      money.Round2(st.AvgPrice),
			MinPrice:      st.MinPrice,
			MaxPrice:      st.MaxPrice,
		})
	}
	return result, nil
}

// GetLowRatingProducts lists products rated inside the window, lowest first.
func (s *Service) GetLowRatingProducts(ctx context.Context, req RatingRangeRequest) ([]product.Product, error) {
	min, max := float64(DefaultMinRating), float64(DefaultMaxRating)
	if req.MinRating != nil {
		min = *req.MinRating
	}
	if req.MaxRating != nil {
		max = *req.MaxRating
	}
	if min < 0 || max > 5 || min > max {
		return nil, apperror.InvalidArgument("Invalid rating range")
	}

	products, err := s.products.ListByRating(ctx, min, max)
	if err != nil {
		return nil, apperror.Unexpected("Failed to load products", err)
	}
	return nonNil(products), nil
}

// GetProductsByPriceRange lists products priced inside the window, cheapest first.
func (s *Service) GetProductsByPriceRange(ctx context.Context, req PriceRangeRequest) (*PriceRange, error) {
	min, max := decimal.Zero, decimal.NewFromInt(DefaultMaxPrice)
	if req.MinPrice != nil {
		min = *req.MinPrice
	}
	if req.MaxPrice != nil {
		max = *req.MaxPrice
	}
	if min.IsNegative() || min.GreaterThan(max) {
		return nil, apperror.InvalidArgument("Invalid price range")
	}

	products, err := s.products.ListByPriceRange(ctx, min, max)
	if err != nil {
		return nil, apperror.Unexpected("Failed to load products", err)
	}

	return &PriceRange{
		MinPrice:        min,
		MaxPrice:        max,
		ProductsInRange: len(products),
		Products:        nonNil(products),
	}, nil
}

func nonNil(products []product.Product) []product.Product {
	if products == nil {
		return []product.Product{}
	}
	return products
}
