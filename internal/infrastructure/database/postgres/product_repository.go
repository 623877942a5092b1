// internal/infrastructure/database/postgres/product_repository.go
package postgres

import (
	"context"
	"strings"

	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProductRepository stores the catalog in the products table
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	return affected(r.db.WithContext(ctx).Model(p).Select("*").Omit("created_at").Updates(p))
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&product.Product{}))
}

func (r *ProductRepository) List(ctx context.Context, filter product.Filter) ([]product.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&product.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Order("created_at DESC").Order("id")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}

	var products []product.Product
	if err := page.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&product.Product{}).Count(&count).Error
	return count, err
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&product.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *ProductRepository) CategoryStats(ctx context.Context) ([]product.CategoryStat, error) {
	var rows []struct {
		Category   string
		Count      int64
		TotalValue decimal.Decimal
		AvgPrice   decimal.Decimal
		MinPrice   decimal.Decimal
		MaxPrice   decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&product.Product{}).
		Select(`category,
			COUNT(*) AS count,
			COALESCE(SUM(price), 0) AS total_value,
			COALESCE(AVG(price), 0) AS avg_price,
			COALESCE(MIN(price), 0) AS min_price,
			COALESCE(MAX(price), 0) AS max_price`).
		Group("category").
		Order("count DESC").
		Order("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]product.CategoryStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, product.CategoryStat{
			Category:   row.Category,
			Count:      row.Count,
			TotalValue: row.TotalValue,
			AvgPrice:   row.AvgPrice,
			MinPrice:   row.MinPrice,
			MaxPrice:   row.MaxPrice,
		})
	}
	return stats, nil
}

func (r *ProductRepository) ListByRating(ctx context.Context, min, max float64) ([]product.Product, error) {
	var products []product.Product
	err := r.db.WithContext(ctx).
		Where("rating >= ? AND rating <= ?", min, max).
		Order("rating ASC").
		Order("id").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]product.Product, error) {
	var products []product.Product
	err := r.db.WithContext(ctx).
		Where("price >= ? AND price <= ?", min, max).
		Order("price ASC").
		Order("id").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&product.Product{}).
		Select("COALESCE(SUM(price), 0)").
		Row().
		Scan(&total)
	return total, err
}
