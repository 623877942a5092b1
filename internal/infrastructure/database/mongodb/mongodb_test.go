package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimalCodecRoundTrip(t *testing.T) {
	reg := NewRegistry()
	in := struct {
		Price decimal.Decimal `bson:"price"`
	}{Price: decimal.RequireFromString("19.99")}

	data, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	raw := bson.Raw(data)
	_, ok := raw.Lookup("price").Decimal128OK()
	assert.True(t, ok, "price should be stored as Decimal128")

	var out struct {
		Price decimal.Decimal `bson:"price"`
	}
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
	assert.Equal(t, "19.99", out.Price.String())
}

func TestDecimalCodecAcceptsNumbers(t *testing.T) {
	reg := NewRegistry()
	d128, err := primitive.ParseDecimal128("2.5")
	require.NoError(t, err)

	for _, doc := range []bson.M{{"v": 7.25}, {"v": int32(3)}, {"v": int64(4)}, {"v": "1.10"}, {"v": d128}} {
		data, err := bson.Marshal(doc)
		require.NoError(t, err)

		var out struct {
			V decimal.Decimal `bson:"v"`
		}
		require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
		assert.False(t, out.V.IsZero())
	}
}

// setupMongo connects to MONGO_TEST_URI and returns a throwaway database.
func setupMongo(t *testing.T) *Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, uri, "storefront_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, db.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = db.DB().Drop(context.Background())
		_ = db.Close(context.Background())
	})
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	users := NewUserRepository(db)
	alice := &user.User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com", FullName: "Alice", PasswordHash: "h", Role: auth.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, alice))
	dup := *alice
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrDuplicate)

	require.NoError(t, users.SetRefreshToken(ctx, alice.ID, "tok"))
	found, err := users.FindByRefreshToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	require.NoError(t, users.SetRefreshToken(ctx, alice.ID, ""))
	_, err = users.FindByRefreshToken(ctx, "tok")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	products := NewProductRepository(db)
	for i, p := range []struct{ name, category, price string }{
		{"Phone", "Electronics", "500"},
		{"Laptop", "Electronics", "1500.25"},
		{"Shirt (XL)", "Apparel", "20"},
	} {
		require.NoError(t, products.Create(ctx, &product.Product{
			ID: uuid.NewString(), Name: p.name, Category: p.category, Price: decimal.RequireFromString(p.price),
			Description: p.name, Rating: float64(i + 1), CreatedAt: now.Add(time.Duration(i) * time.Minute), UpdatedAt: now,
		}))
	}

	list, total, err := products.List(ctx, product.Filter{Query: "(xl)"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Shirt (XL)", list[0].Name)

	stats, err := products.CategoryStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Electronics", stats[0].Category)
	assert.Equal(t, "2000.25", stats[0].TotalValue.String())

	value, err := products.TotalValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2020.25", value.String())

	carts := NewCartRepository(db)
	c := cart.New(uuid.NewString(), alice.ID, now)
	require.NoError(t, c.AddItem(cart.Snapshot{ProductID: "p", Name: "Phone", Price: decimal.NewFromInt(500)}, 2))
	require.NoError(t, carts.Save(ctx, c))
	require.NoError(t, carts.Save(ctx, c))
	cartStats, err := carts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cartStats.ActiveCarts)
	assert.Equal(t, "1000", cartStats.OpenValue.String())

	orders := NewOrderRepository(db)
	o := &order.Order{
		ID: uuid.NewString(), OrderNumber: order.GenerateOrderNumber(now), UserID: alice.ID,
		TotalAmount: decimal.RequireFromString("10.50"), TotalItems: 1,
		PaymentStatus: order.PaymentStatusPending, OrderStatus: order.OrderStatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, orders.Create(ctx, o))
	intent := "pi_1"
	o.PaymentIntentID = &intent
	o.PaymentStatus = order.PaymentStatusCompleted
	require.NoError(t, orders.Update(ctx, o))

	byIntent, err := orders.FindByPaymentIntentID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, byIntent.ID)

	orderStats, err := orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orderStats.TotalOrders)
	assert.Equal(t, "10.5", orderStats.Revenue.String())
}
