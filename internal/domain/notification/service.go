// Package notification turns order and payment events into customer emails.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopfront/storefront-api/internal/pkg/events"
	"github.com/sirupsen/logrus"
)

// Notifier sends the customer-facing messages
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, evt *events.OrderEvent) error
	SendPaymentSuccess(ctx context.Context, evt *events.OrderEvent) error
	SendPaymentFailed(ctx context.Context, evt *events.OrderEvent, reason string) error
}

// RoutingKeys are the events the service consumes.
var RoutingKeys = []string{events.OrderCreated, events.PaymentSucceeded, events.PaymentFailed}

type Service struct {
	notifier Notifier
	logger   logrus.FieldLogger
}

func NewService(notifier Notifier, logger logrus.FieldLogger) *Service {
	return &Service{notifier: notifier, logger: logger}
}

// Handle processes one delivery. Malformed payloads are logged and dropped
// so they are not redelivered forever.
func (s *Service) Handle(ctx context.Context, routingKey string, body []byte) error {
	var evt events.OrderEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		s.logger.WithError(err).WithField("routing_key", routingKey).Error("dropping malformed event")
		return nil
	}

	log := s.logger.WithFields(logrus.Fields{
		"routing_key": routingKey,
		"order_id":    evt.OrderID,
	})

	var err error
	switch routingKey {
	case events.OrderCreated:
		err = s.notifier.SendOrderConfirmation(ctx, &evt)
	case events.PaymentSucceeded:
		err = s.notifier.SendPaymentSuccess(ctx, &evt)
	case events.PaymentFailed:
		err = s.notifier.SendPaymentFailed(ctx, &evt, "")
	default:
		log.Debug("ignoring event")
		return nil
	}
	if err != nil {
		log.WithError(err).Error("notification failed")
		return fmt.Errorf("notify %s: %w", routingKey, err)
	}
	return nil
}
