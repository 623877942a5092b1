// internal/infrastructure/database/postgres/cart_repository.go
package postgres

import (
	"context"

	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores one cart row per account
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return &c, nil
}

func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "total_amount", "total_items", "updated_at"}),
		}).
		Create(c).Error)
}

func (r *CartRepository) Stats(ctx context.Context) (cart.Stats, error) {
	var row struct {
		ActiveCarts int64
		OpenValue   decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&cart.Cart{}).
		Select("COUNT(*) AS active_carts, COALESCE(SUM(total_amount), 0) AS open_value").
		Where("total_items > 0").
		Scan(&row).Error
	if err != nil {
		return cart.Stats{}, err
	}
	return cart.Stats{ActiveCarts: row.ActiveCarts, OpenValue: row.OpenValue}, nil
}
