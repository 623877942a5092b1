// internal/infrastructure/database/mongodb/product_repository.go
package mongodb

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository stores the catalog in the products collection
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database) *ProductRepository {
	return &ProductRepository{coll: db.DB().Collection(ProductsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.coll.InsertOne(ctx, p)
	return translate(err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter product.Filter) ([]product.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"category": re},
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.coll.Find(ctx, query, pageOptions(filter.Offset, filter.Limit))
	if err != nil {
		return nil, 0, err
	}
	var products []product.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *ProductRepository) CategoryStats(ctx context.Context) ([]product.CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalValue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "minPrice", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "maxPrice", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Category   string          `bson:"_id"`
		Count      int64           `bson:"count"`
		TotalValue decimal.Decimal `bson:"totalValue"`
		AvgPrice   decimal.Decimal `bson:"avgPrice"`
		MinPrice   decimal.Decimal `bson:"minPrice"`
		MaxPrice   decimal.Decimal `bson:"maxPrice"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := make([]product.CategoryStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, product.CategoryStat(row))
	}
	return stats, nil
}

func (r *ProductRepository) ListByRating(ctx context.Context, min, max float64) ([]product.Product, error) {
	return r.sorted(ctx, bson.M{"rating": bson.M{"$gte": min, "$lte": max}}, "rating")
}

func (r *ProductRepository) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]product.Product, error) {
	return r.sorted(ctx, bson.M{"price": bson.M{"$gte": min, "$lte": max}}, "price")
}

func (r *ProductRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	})
	if err != nil {
		return decimal.Zero, err
	}
	var rows []struct {
		Total decimal.Decimal `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return rows[0].Total, nil
}

func (r *ProductRepository) sorted(ctx context.Context, filter bson.M, field string) ([]product.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var products []product.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
