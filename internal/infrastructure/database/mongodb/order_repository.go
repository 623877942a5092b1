// internal/infrastructure/database/mongodb/order_repository.go
package mongodb

import (
	"context"

	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository stores orders in the orders collection
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *Database) *OrderRepository {
	return &OrderRepository{coll: db.DB().Collection(OrdersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.coll.InsertOne(ctx, o)
	return translate(err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*order.Order, error) {
	return r.findOne(ctx, bson.M{"paymentIntentId": intentID})
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.OrderStatus != "" {
		query["orderStatus"] = filter.OrderStatus
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.coll.Find(ctx, query, pageOptions(filter.Offset, filter.Limit))
	if err != nil {
		return nil, 0, err
	}
	var orders []order.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) Stats(ctx context.Context) (order.Stats, error) {
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$paymentStatus", order.PaymentStatusCompleted}}},
				"$totalAmount",
				0,
			}}}}}},
		}}},
	})
	if err != nil {
		return order.Stats{}, err
	}
	var rows []struct {
		TotalOrders int64           `bson:"totalOrders"`
		Revenue     decimal.Decimal `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return order.Stats{}, err
	}
	if len(rows) == 0 {
		return order.Stats{Revenue: decimal.Zero}, nil
	}
	return order.Stats{TotalOrders: rows[0].TotalOrders, Revenue: rows[0].Revenue}, nil
}

func (r *OrderRepository) findOne(ctx context.Context, filter bson.M) (*order.Order, error) {
	var o order.Order
	if err := r.coll.FindOne(ctx, filter).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}
