package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter product.Filter) ([]product.Product, int64, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]product.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) CategoryStats(ctx context.Context) ([]product.CategoryStat, error) {
	args := m.Called(ctx)
	return args.Get(0).([]product.CategoryStat), args.Error(1)
}

func (m *MockRepository) ListByRating(ctx context.Context, min, max float64) ([]product.Product, error) {
	args := m.Called(ctx, min, max)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockRepository) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]product.Product, error) {
	args := m.Called(ctx, min, max)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, id string) (*product.Product, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*product.Product), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, p *product.Product) {
	m.Called(ctx, p)
}

func (m *MockCache) Invalidate(ctx context.Context, id string) {
	m.Called(ctx, id)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := product.NewService(repo, nil, logger.Discard())

	rating := 4.5
	repo.On("Create", ctx, mock.MatchedBy(func(p *product.Product) bool {
		return p.ID != "" && p.Name == "Laptop" && p.Price.Equal(decimal.RequireFromString("999.99"))
	})).Return(nil)

	p, err := svc.CreateProduct(ctx, &product.ProductCreateRequest{
		Name:        "  Laptop ",
		Price:       price("999.99"),
		Description: "Fast",
		Category:    "Electronics",
		Rating:      &rating,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.Rating)
	repo.AssertExpectations(t)
}

func TestCreateProduct_Validation(t *testing.T) {
	repo := new(MockRepository)
	svc := product.NewService(repo, nil, logger.Discard())
	tooHigh := 5.5

	tests := []struct {
		name string
		req  product.ProductCreateRequest
	}{
		{"empty name", product.ProductCreateRequest{Name: " ", Price: price("1"), Description: "d", Category: "c"}},
		{"missing price", product.ProductCreateRequest{Name: "n", Description: "d", Category: "c"}},
		{"negative price", product.ProductCreateRequest{Name: "n", Price: price("-0.01"), Description: "d", Category: "c"}},
		{"missing category", product.ProductCreateRequest{Name: "n", Price: price("1"), Description: "d"}},
		{"rating out of range", product.ProductCreateRequest{Name: "n", Price: price("1"), Description: "d", Category: "c", Rating: &tooHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.CreateProduct(context.Background(), &req)
			assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetProduct_CacheHitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := product.NewService(repo, cache, logger.Discard())

	cached := &product.Product{ID: "p-1", Name: "Cached"}
	cache.On("Get", ctx, "p-1").Return(cached, true)

	p, err := svc.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Same(t, cached, p)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetProduct_MissFillsCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := product.NewService(repo, cache, logger.Discard())

	stored := &product.Product{ID: "p-1", Name: "Stored"}
	cache.On("Get", ctx, "p-1").Return(nil, false)
	repo.On("FindByID", ctx, "p-1").Return(stored, nil)
	cache.On("Set", ctx, stored).Return()

	p, err := svc.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Stored", p.Name)
	cache.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := product.NewService(repo, nil, logger.Discard())

	repo.On("FindByID", ctx, "missing").Return(nil, domain.ErrNotFound)
	repo.On("FindByID", ctx, "broken").Return(nil, errors.New("connection reset"))

	_, err := svc.GetProduct(ctx, "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.GetProduct(ctx, "broken")
	assert.True(t, apperror.IsKind(err, apperror.KindUnexpected))
}

func TestUpdateProduct_PartialAndInvalidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := product.NewService(repo, cache, logger.Discard())

	existing := &product.Product{ID: "p-1", Name: "Old", Description: "desc", Category: "Books", Price: decimal.NewFromInt(10)}
	repo.On("FindByID", ctx, "p-1").Return(existing, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	cache.On("Invalidate", ctx, "p-1").Return()

	name := "New"
	p, err := svc.UpdateProduct(ctx, "p-1", &product.ProductUpdateRequest{Name: &name, Price: price("12.50")})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "Books", p.Category)
	assert.Equal(t, "12.5", p.Price.String())
	cache.AssertCalled(t, "Invalidate", ctx, "p-1")
}

func TestUpdateProduct_RejectsBlankAndNegative(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := product.NewService(repo, nil, logger.Discard())

	repo.On("FindByID", ctx, "p-1").Return(func() *product.Product {
		return &product.Product{ID: "p-1", Name: "Old", Description: "d", Category: "c"}
	}(), nil)

	blank := "   "
	_, err := svc.UpdateProduct(ctx, "p-1", &product.ProductUpdateRequest{Category: &blank})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "category cannot be empty", appErr.Message)

	_, err = svc.UpdateProduct(ctx, "p-1", &product.ProductUpdateRequest{Price: price("-1")})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	svc := product.NewService(repo, cache, logger.Discard())

	existing := &product.Product{ID: "p-1", Name: "Gone"}
	repo.On("FindByID", ctx, "p-1").Return(existing, nil)
	repo.On("Delete", ctx, "p-1").Return(nil)
	cache.On("Invalidate", ctx, "p-1").Return()
	repo.On("FindByID", ctx, "p-2").Return(nil, domain.ErrNotFound)

	p, err := svc.DeleteProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Gone", p.Name)

	_, err = svc.DeleteProduct(ctx, "p-2")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	repo.AssertNotCalled(t, "Delete", ctx, "p-2")
}

func TestGetProducts_Filters(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := product.NewService(repo, nil, logger.Discard())

	lo, hi := price("10"), price("50")
	repo.On("List", ctx, product.Filter{Category: "Books", MinPrice: lo, MaxPrice: hi, Offset: 20, Limit: 10}).
		Return([]product.Product{{ID: "p-1"}}, int64(21), nil)

	res, err := svc.GetProducts(ctx, &product.ProductListRequest{Page: 3, Category: " Books ", MinPrice: lo, MaxPrice: hi})
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.Equal(t, int64(21), res.Pagination.TotalProducts)

	_, err = svc.GetProducts(ctx, &product.ProductListRequest{MinPrice: hi, MaxPrice: lo})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := product.NewService(repo, nil, logger.Discard())

	_, err := svc.SearchProducts(ctx, "   ", 1, 10)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))

	repo.On("List", ctx, product.Filter{Query: "phone", Limit: 10}).Return(nil, int64(0), nil)

	res, err := svc.SearchProducts(ctx, " phone ", 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	assert.Equal(t, 1, res.Pagination.CurrentPage)
}
