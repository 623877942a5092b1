// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&cart.Cart{},
		&order.Order{},
	}

	for _, model := range models {
		m.logger.Debugf("migrating model %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates composite indexes the struct tags cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_role_created ON users(role, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_created ON products(category, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_rating ON products(rating)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(order_status, created_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("database indexes ensured")
	return nil
}

// SeedInitialData inserts a development admin and sample products
func (m *Migration) SeedInitialData(passwords *auth.PasswordManager) error {
	if err := m.seedAdminUser(passwords); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}

func (m *Migration) seedAdminUser(passwords *auth.PasswordManager) error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("role = ?", auth.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := passwords.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := user.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        "admin@storefront.local",
		FullName:     "Store Admin",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	m.logger.WithField("email", admin.Email).Info("seeded development admin user")
	return nil
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	samples := []struct {
		name, category, price, description string
		rating                             float64
	}{
		{"Wireless Headphones", "Electronics", "99.99", "Over-ear noise cancelling headphones", 4.5},
		{"Smart Watch", "Electronics", "199.00", "Fitness tracking smart watch", 4.1},
		{"Running Shoes", "Footwear", "79.50", "Lightweight road running shoes", 3.8},
		{"Cotton T-Shirt", "Apparel", "19.99", "Crew neck t-shirt", 2.9},
		{"Coffee Grinder", "Kitchen", "45.00", "Burr coffee grinder", 4.7},
	}

	products := make([]product.Product, 0, len(samples))
	for i, s := range samples {
		products = append(products, product.Product{
			ID:          uuid.NewString(),
			Name:        s.name,
			Price:       decimal.RequireFromString(s.price),
			Description: s.description,
			Category:    s.category,
			Rating:      s.rating,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
			UpdatedAt:   now,
		})
	}
	if err := m.db.Create(&products).Error; err != nil {
		return err
	}

	m.logger.WithField("count", len(products)).Info("seeded sample products")
	return nil
}
