// internal/domain/product/entity.go
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry
type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name        string          `gorm:"not null;size:255" bson:"name" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;index" bson:"price" json:"price"`
	Description string          `gorm:"type:text;not null" bson:"description" json:"description"`
	Category    string          `gorm:"not null;size:100;index" bson:"category" json:"category"`
	Rating      float64         `gorm:"not null;default:0;index" bson:"rating" json:"rating"`
	CreatedAt   time.Time       `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// Filter narrows a product listing. Query matches name, description or
// category as a case-insensitive substring. Limit 0 returns everything.
type Filter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Query    string
	Offset   int
	Limit    int
}

// CategoryStat aggregates the products of one category.
type CategoryStat struct {
	Category   string          `json:"category"`
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
	AvgPrice   decimal.Decimal `json:"avgPrice"`
	MinPrice   decimal.Decimal `json:"minPrice"`
	MaxPrice   decimal.Decimal `json:"maxPrice"`
}

// Repository persists products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// List returns matching products newest first and the total match count.
	List(ctx context.Context, filter Filter) ([]Product, int64, error)
	Count(ctx context.Context) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	// CategoryStats returns one row per category ordered by count descending.
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	// ListByRating returns products with min <= rating <= max, lowest first.
	ListByRating(ctx context.Context, min, max float64) ([]Product, error)
	// ListByPriceRange returns products with min <= price <= max, cheapest first.
	ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]Product, error)
	TotalValue(ctx context.Context) (decimal.Decimal, error)
}

// Cache is a read-through cache of single products.
type Cache interface {
	Get(ctx context.Context, id string) (*Product, bool)
	Set(ctx context.Context, p *Product)
	Invalidate(ctx context.Context, id string)
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*Product, bool) { return nil, false }
func (noCache) Set(context.Context, *Product)                {}
func (noCache) Invalidate(context.Context, string)           {}
