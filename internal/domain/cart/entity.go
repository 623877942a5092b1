// internal/domain/cart/entity.go
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned for a non-positive add quantity or a negative update quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrItemNotFound is returned when a cart has no line for the product.
	ErrItemNotFound = errors.New("item not found in cart")
)

// Item is a cart line. ProductName and Price are snapshots taken when the
// product was first added.
type Item struct {
	ProductID   string          `bson:"productId" json:"productId"`
	ProductName string          `bson:"productName" json:"productName"`
	Price       decimal.Decimal `bson:"price" json:"price"`
	Quantity    int             `bson:"quantity" json:"quantity"`
	TotalPrice  decimal.Decimal `bson:"totalPrice" json:"totalPrice"`
}

// Cart is the per-account shopping cart. TotalAmount and TotalItems are
// derived from Items after every mutation and never set directly.
type Cart struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	UserID      string          `gorm:"uniqueIndex;not null;type:varchar(36)" bson:"userId" json:"userId"`
	Items       []Item          `gorm:"serializer:json;type:text" bson:"items" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" bson:"totalAmount" json:"totalAmount"`
	TotalItems  int             `gorm:"not null;default:0" bson:"totalItems" json:"totalItems"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// TableName overrides the table name
func (Cart) TableName() string {
	return "carts"
}

// Snapshot is the product data captured into a new cart line.
type Snapshot struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
}

// New returns an empty cart for userID.
func New(id, userID string, now time.Time) *Cart {
	return &Cart{
		ID:          id,
		UserID:      userID,
		Items:       []Item{},
		TotalAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddItem adds quantity of a product. An existing line keeps its stored unit
// price; a new line captures the snapshot.
func (c *Cart) AddItem(p Snapshot, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if i := c.indexOf(p.ProductID); i >= 0 {
		line := &c.Items[i]
		line.Quantity += quantity
		line.TotalPrice = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
	} else {
		c.Items = append(c.Items, Item{
			ProductID:   p.ProductID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    quantity,
			TotalPrice:  p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}

	c.recalculate()
	return nil
}

// UpdateItemQuantity sets a line's quantity; zero removes the line.
func (c *Cart) UpdateItemQuantity(productID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	if quantity == 0 {
		c.RemoveItem(productID)
		return nil
	}

	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}

	line := &c.Items[i]
	line.Quantity = quantity
	line.TotalPrice = line.Price.Mul(decimal.NewFromInt(int64(quantity)))

	c.recalculate()
	return nil
}

// RemoveItem deletes the product's line. Absent lines are ignored.
func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.recalculate()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.recalculate()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) recalculate() {
	total := decimal.Zero
	count := 0
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice)
		count += item.Quantity
	}
	c.TotalAmount = total
	c.TotalItems = count
}

// Stats summarizes carts that hold at least one item.
type Stats struct {
	ActiveCarts int64
	OpenValue   decimal.Decimal
}

// Repository persists carts.
type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*Cart, error)
	// Save inserts or replaces the cart keyed by its user.
	Save(ctx context.Context, c *Cart) error
	Stats(ctx context.Context) (Stats, error)
}
