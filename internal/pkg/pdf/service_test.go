package pdf

import (
	"testing"
	"time"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	svc := NewService(config.AppConfig{
		CompanyName:    "Shopfront",
		CompanyAddress: "1 Market St",
		CompanyEmail:   "billing@shopfront.test",
	})
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }

	o := &order.Order{
		OrderNumber: "ORD-20250309-ABCDEF12",
		Items: []order.Item{{
			ProductName: "Mug <Large>",
			Price:       decimal.RequireFromString("4.5"),
			Quantity:    2,
			TotalPrice:  decimal.RequireFromString("9"),
		}},
		TotalAmount:     decimal.RequireFromString("9"),
		TotalItems:      2,
		PaymentStatus:   order.PaymentStatusCompleted,
		OrderStatus:     order.OrderStatusConfirmed,
		ShippingAddress: order.Address{Street: "5 Elm", City: "Springfield", ZipCode: "12345", Country: "US"},
		Email:           "jane@example.com",
		CreatedAt:       time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
	}

	html, err := svc.RenderHTML(o)
	require.NoError(t, err)
	body := string(html)

	assert.Contains(t, body, "INV-ORD-20250309-ABCDEF12")
	assert.Contains(t, body, "March 10, 2025")
	assert.Contains(t, body, "March 9, 2025")
	assert.Contains(t, body, "Mug &lt;Large&gt;")
	assert.Contains(t, body, "$4.50")
	assert.Contains(t, body, "$9.00")
	assert.Contains(t, body, "status-paid")
	assert.Contains(t, body, "Springfield")
	assert.Contains(t, body, "billing@shopfront.test")
}
