// internal/infrastructure/database/mongodb/cart_repository.go
package mongodb

import (
	"context"

	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository stores one cart document per account
type CartRepository struct {
	coll *mongo.Collection
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *Database) *CartRepository {
	return &CartRepository{coll: db.DB().Collection(CartsCollection)}
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return &c, nil
}

func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"userId": c.UserID}, c, options.Replace().SetUpsert(true))
	return translate(err)
}

func (r *CartRepository) Stats(ctx context.Context) (cart.Stats, error) {
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "totalItems", Value: bson.D{{Key: "$gt", Value: 0}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "activeCarts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "openValue", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	})
	if err != nil {
		return cart.Stats{}, err
	}
	var rows []struct {
		ActiveCarts int64           `bson:"activeCarts"`
		OpenValue   decimal.Decimal `bson:"openValue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return cart.Stats{}, err
	}
	if len(rows) == 0 {
		return cart.Stats{OpenValue: decimal.Zero}, nil
	}
	return cart.Stats{ActiveCarts: rows[0].ActiveCarts, OpenValue: rows[0].OpenValue}, nil
}
