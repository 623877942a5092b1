// internal/domain/analytics/service.go
package analytics

import (
	"context"

	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Service handles analytics business logic
type Service struct {
	users    user.Repository
	products product.Repository
	carts    cart.Repository
	orders   order.Repository
}

// NewService creates a new analytics service
func NewService(users user.Repository, products product.Repository, carts cart.Repository, orders order.Repository) *Service {
	return &Service{
		users:    users,
		products: products,
		carts:    carts,
		orders:   orders,
	}
}

// DashboardStats represents overall dashboard statistics
type DashboardStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProducts int64 `json:"totalProducts"`

	// Orders and revenue count placed orders; revenue only completed payments.
	TotalOrders  int64           `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`

	ActiveCarts   int64           `json:"activeCarts"`
	OpenCartValue decimal.Decimal `json:"openCartValue"`

	TotalProductCategories int      `json:"totalProductCategories"`
	Categories             []string `json:"categories"`
}

// GetDashboardStats gathers the dashboard counters concurrently.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats      DashboardStats
		orderStats order.Stats
		cartStats  cart.Stats
		categories []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.CountByRole(gctx, auth.RoleUser)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		orderStats, err = s.orders.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		cartStats, err = s.carts.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.products.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Unexpected("Failed to load dashboard statistics", err)
	}

	if categories == nil {
		categories = []string{}
	}
	stats.TotalOrders = orderStats.TotalOrders
	stats.TotalRevenue = orderStats.Revenue
	stats.ActiveCarts = cartStats.ActiveCarts
	stats.OpenCartValue = cartStats.OpenValue
	stats.TotalProductCategories = len(categories)
	stats.Categories = categories

	return &stats, nil
}
