// internal/domain/order/entity.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Item is a frozen cart line.
type Item struct {
	ProductID   string          `bson:"productId" json:"productId"`
	ProductName string          `bson:"productName" json:"productName"`
	Price       decimal.Decimal `bson:"price" json:"price"`
	Quantity    int             `bson:"quantity" json:"quantity"`
	TotalPrice  decimal.Decimal `bson:"totalPrice" json:"totalPrice"`
}

// Address represents the shipping address
type Address struct {
	Street  string `gorm:"size:255" bson:"street" json:"street"`
	City    string `gorm:"size:100" bson:"city" json:"city"`
	State   string `gorm:"size:100" bson:"state" json:"state"`
	ZipCode string `gorm:"size:20" bson:"zipCode" json:"zipCode"`
	Country string `gorm:"size:100" bson:"country" json:"country"`
}

// Order is a snapshot of a cart at checkout plus its payment and
// fulfilment state. PaymentIntentID is unique when set.
type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null;size:50" bson:"orderNumber" json:"orderNumber"`
	UserID          string          `gorm:"not null;index;type:varchar(36)" bson:"userId" json:"userId"`
	Items           []Item          `gorm:"serializer:json;type:text" bson:"items" json:"items"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" bson:"totalAmount" json:"totalAmount"`
	TotalItems      int             `gorm:"not null" bson:"totalItems" json:"totalItems"`
	PaymentIntentID *string         `gorm:"uniqueIndex;size:255" bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	PaymentStatus   PaymentStatus   `gorm:"not null;default:'pending';index;size:20" bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus     OrderStatus     `gorm:"not null;default:'pending';index;size:20" bson:"orderStatus" json:"orderStatus"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" bson:"shippingAddress" json:"shippingAddress"`
	Email           string          `gorm:"not null;size:255" bson:"email" json:"email"`
	PhoneNumber     string          `gorm:"size:30" bson:"phoneNumber" json:"phoneNumber"`
	Notes           string          `gorm:"type:text" bson:"notes" json:"notes"`
	PaidAt          *time.Time      `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt       time.Time       `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// TableName overrides the table name
func (Order) TableName() string { return "orders" }

// GenerateOrderNumber returns a number of the form ORD-YYYYMMDD-XXXXXXXX.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// IsPaid reports whether the payment completed.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusCompleted
}

// IntentID returns the linked payment intent id or "".
func (o *Order) IntentID() string {
	if o.PaymentIntentID == nil {
		return ""
	}
	return *o.PaymentIntentID
}

// ListFilter selects orders. Empty fields match everything.
type ListFilter struct {
	UserID      string
	OrderStatus OrderStatus
	Offset      int
	Limit       int
}

// Stats summarizes all orders.
type Stats struct {
	TotalOrders int64
	// Revenue sums orders whose payment completed.
	Revenue decimal.Decimal
}

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	// List returns matching orders newest first and the total match count.
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	Stats(ctx context.Context) (Stats, error)
}
