// internal/infrastructure/database/postgres/order_repository.go
package postgres

import (
	"context"

	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository stores orders with their items serialized inline
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return affected(r.db.WithContext(ctx).Model(o).Select("*").Omit("created_at").Updates(o))
}

func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Order("created_at DESC").Order("id")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}

	var orders []order.Order
	if err := page.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) Stats(ctx context.Context) (order.Stats, error) {
	var row struct {
		TotalOrders int64
		Revenue     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(CASE WHEN payment_status = ? THEN total_amount ELSE 0 END), 0) AS revenue",
			order.PaymentStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return order.Stats{}, err
	}
	return order.Stats{TotalOrders: row.TotalOrders, Revenue: row.Revenue}, nil
}
