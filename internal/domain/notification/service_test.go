package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopfront/storefront-api/internal/domain/notification"
	"github.com/shopfront/storefront-api/internal/pkg/events"
	"github.com/shopfront/storefront-api/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, evt *events.OrderEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockNotifier) SendPaymentSuccess(ctx context.Context, evt *events.OrderEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockNotifier) SendPaymentFailed(ctx context.Context, evt *events.OrderEvent, reason string) error {
	return m.Called(ctx, evt, reason).Error(0)
}

func payload(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(events.OrderEvent{
		OrderID:     "o-1",
		OrderNumber: "ORD-20250309-ABCDEF12",
		Email:       "jane@example.com",
		TotalAmount: decimal.RequireFromString("10.5"),
	})
	require.NoError(t, err)
	return body
}

func byOrder(evt *events.OrderEvent) bool {
	return evt.OrderID == "o-1" && evt.TotalAmount.String() == "10.5"
}

func TestHandle_RoutesByKey(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockNotifier)
	svc := notification.NewService(notifier, logger.Discard())

	notifier.On("SendOrderConfirmation", ctx, mock.MatchedBy(byOrder)).Return(nil).Once()
	notifier.On("SendPaymentSuccess", ctx, mock.MatchedBy(byOrder)).Return(nil).Once()
	notifier.On("SendPaymentFailed", ctx, mock.MatchedBy(byOrder), "").Return(nil).Once()

	require.NoError(t, svc.Handle(ctx, events.OrderCreated, payload(t)))
	require.NoError(t, svc.Handle(ctx, events.PaymentSucceeded, payload(t)))
	require.NoError(t, svc.Handle(ctx, events.PaymentFailed, payload(t)))

	notifier.AssertExpectations(t)
}

func TestHandle_DropsMalformedAndUnknown(t *testing.T) {
	notifier := new(MockNotifier)
	svc := notification.NewService(notifier, logger.Discard())

	assert.NoError(t, svc.Handle(context.Background(), events.PaymentSucceeded, []byte("{")))
	assert.NoError(t, svc.Handle(context.Background(), "order.shipped", payload(t)))

	notifier.AssertNotCalled(t, "SendPaymentSuccess", mock.Anything, mock.Anything)
}

func TestHandle_ReturnsNotifierError(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockNotifier)
	svc := notification.NewService(notifier, logger.Discard())

	notifier.On("SendPaymentSuccess", ctx, mock.Anything).Return(errors.New("smtp down"))

	err := svc.Handle(ctx, events.PaymentSucceeded, payload(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}
