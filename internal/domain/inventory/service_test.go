package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain/inventory"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/infrastructure/database/postgres"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *inventory.Service {
	t.Helper()
	db, err := postgres.NewMemoryDB(logger.Discard())
	require.NoError(t, err)
	repo := postgres.NewProductRepository(db)

	now := time.Now().UTC()
	for _, p := range []struct {
		name, category, price string
		rating                float64
	}{
		{"Novel", "Books", "10", 2.5},
		{"Atlas", "Books", "20", 4.8},
		{"Yo-yo", "Toys", "5", 1},
	} {
		require.NoError(t, repo.Create(context.Background(), &product.Product{
			ID:          uuid.NewString(),
			Name:        p.name,
			Price:       decimal.RequireFromString(p.price),
			Description: p.name,
			Category:    p.category,
			Rating:      p.rating,
			CreatedAt:   now,
			UpdatedAt:   now,
		}))
	}
	return inventory.NewService(repo)
}

func TestGetSummary(t *testing.T) {
	svc := setup(t)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalProducts)
	assert.True(t, summary.TotalInventoryValue.Equal(decimal.NewFromInt(35)))
	require.Len(t, summary.CategorySummary, 2)
	assert.Equal(t, "Books", summary.CategorySummary[0].Category)
	assert.Equal(t, int64(2), summary.CategorySummary[0].Count)
	assert.True(t, summary.CategorySummary[0].AvgPrice.Equal(decimal.NewFromInt(15)))
	assert.Len(t, summary.AllProducts, 3)
}

func TestGetCategoryInventory(t *testing.T) {
	svc := setup(t)

	categories, err := svc.GetCategoryInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	books := categories[0]
	assert.Equal(t, "Books", books.Category)
	assert.Len(t, books.Products, 2)
	assert.True(t, books.MinPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, books.MaxPrice.Equal(decimal.NewFromInt(20)))
	assert.True(t, books.TotalValue.Equal(decimal.NewFromInt(30)))

	assert.Equal(t, "Toys", categories[1].Category)
	assert.Len(t, categories[1].Products, 1)
}

func TestGetLowRatingProducts(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	products, err := svc.GetLowRatingProducts(ctx, inventory.RatingRangeRequest{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Yo-yo", products[0].Name)
	assert.Equal(t, "Novel", products[1].Name)

	lo, hi := 4.0, 3.0
	_, err = svc.GetLowRatingProducts(ctx, inventory.RatingRangeRequest{MinRating: &lo, MaxRating: &hi})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))

	tooHigh := 6.0
	_, err = svc.GetLowRatingProducts(ctx, inventory.RatingRangeRequest{MaxRating: &tooHigh})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
}

func TestGetProductsByPriceRange(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	lo, hi := decimal.NewFromInt(5), decimal.NewFromInt(10)
	res, err := svc.GetProductsByPriceRange(ctx, inventory.PriceRangeRequest{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ProductsInRange)
	assert.Equal(t, "Yo-yo", res.Products[0].Name)

	res, err = svc.GetProductsByPriceRange(ctx, inventory.PriceRangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ProductsInRange)
	assert.True(t, res.MaxPrice.Equal(decimal.NewFromInt(inventory.DefaultMaxPrice)))

	negative := decimal.NewFromInt(-1)
	_, err = svc.GetProductsByPriceRange(ctx, inventory.PriceRangeRequest{MinPrice: &negative})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))

	_, err = svc.GetProductsByPriceRange(ctx, inventory.PriceRangeRequest{MinPrice: &hi, MaxPrice: &lo})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
}
