// Package events defines the domain events published to the message broker.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys.
const (
	OrderCreated     = "order.created"
	PaymentSucceeded = "payment.succeeded"
	PaymentFailed    = "payment.failed"
)

// OrderEvent is the payload of every order and payment event.
type OrderEvent struct {
	OrderID         string          `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Email           string          `json:"email"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalItems      int             `json:"totalItems"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
	Status          string          `json:"status,omitempty"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// Publisher sends an event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, any) error { return nil }
