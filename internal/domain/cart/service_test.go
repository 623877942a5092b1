package cart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/cart"
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

func (m *MockRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, c *cart.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) Stats(ctx context.Context) (cart.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(cart.Stats), args.Error(1)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func cartWithItem(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New("c-1", "u-1", time.Now())
	require.NoError(t, c.AddItem(cart.Snapshot{ProductID: "p-1", Name: "Mug", Price: decimal.RequireFromString("12.50")}, 2))
	return c
}

func intPtr(n int) *int { return &n }

func TestAddToCart_SavesSnapshot(t *testing.T) {
	repo := new(MockRepository)
	products := new(MockProducts)
	svc := cart.NewService(repo, products, logger.Discard())

	products.On("GetProduct", mock.Anything, "p-1").
		Return(&product.Product{ID: "p-1", Name: "Mug", Price: decimal.RequireFromString("12.50")}, nil)
	repo.On("FindByUserID", mock.Anything, "u-1").Return(nil, domain.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

	c, err := svc.AddToCart(context.Background(), "u-1", &cart.AddToCartRequest{ProductID: "p-1", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, "37.5", c.TotalAmount.String())
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestUpdateCartItem_ZeroOnAbsentLineIsNoop(t *testing.T) {
	repo := new(MockRepository)
	svc := cart.NewService(repo, new(MockProducts), logger.Discard())

	repo.On("FindByUserID", mock.Anything, "u-1").Return(cartWithItem(t), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

	c, err := svc.UpdateCartItem(context.Background(), "u-1", &cart.UpdateCartItemRequest{ProductID: "missing", Quantity: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.TotalItems)
}

func TestUpdateCartItem_AbsentLineNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := cart.NewService(repo, new(MockProducts), logger.Discard())

	repo.On("FindByUserID", mock.Anything, "u-1").Return(cartWithItem(t), nil)

	_, err := svc.UpdateCartItem(context.Background(), "u-1", &cart.UpdateCartItemRequest{ProductID: "missing", Quantity: intPtr(1)})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMutations_SaveFailureReturnsNoCart(t *testing.T) {
	saveErr := errors.New("disk full")

	tests := []struct {
		name string
		run  func(svc *cart.Service) (*cart.Cart, error)
	}{
		{
			name: "add",
			run: func(svc *cart.Service) (*cart.Cart, error) {
				return svc.AddToCart(context.Background(), "u-1", &cart.AddToCartRequest{ProductID: "p-1", Quantity: 1})
			},
		},
		{
			name: "update",
			run: func(svc *cart.Service) (*cart.Cart, error) {
				return svc.UpdateCartItem(context.Background(), "u-1", &cart.UpdateCartItemRequest{ProductID: "p-1", Quantity: intPtr(5)})
			},
		},
		{
			name: "remove",
			run: func(svc *cart.Service) (*cart.Cart, error) {
				return svc.RemoveFromCart(context.Background(), "u-1", "p-1")
			},
		},
		{
			name: "clear",
			run: func(svc *cart.Service) (*cart.Cart, error) {
				return svc.ClearCart(context.Background(), "u-1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			products := new(MockProducts)
			svc := cart.NewService(repo, products, logger.Discard())

			products.On("GetProduct", mock.Anything, "p-1").
				Return(&product.Product{ID: "p-1", Name: "Mug", Price: decimal.RequireFromString("12.50")}, nil)
			repo.On("FindByUserID", mock.Anything, "u-1").Return(cartWithItem(t), nil)
			repo.On("Save", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(saveErr)

			c, err := tt.run(svc)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindUnexpected))
			assert.ErrorIs(t, err, saveErr)
		})
	}
}
