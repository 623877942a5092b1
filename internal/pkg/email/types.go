package email

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmailType identifies the template used to render a message
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypePaymentSuccess    EmailType = "payment_success"
	EmailTypePaymentFailed     EmailType = "payment_failed"
)

// Email is a rendered message ready for delivery
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	Type     EmailType
}

// TemplateData is shared by every template
type TemplateData struct {
	SiteName     string
	SupportEmail string
	Address      string
	Year         int
}

// OrderNotificationData feeds the order and payment templates
type OrderNotificationData struct {
	TemplateData
	OrderNumber     string
	Amount          decimal.Decimal
	TotalItems      int
	PaymentIntentID string
	Date            string
	Reason          string
}

func baseTemplateData(siteName, supportEmail, address string) TemplateData {
	return TemplateData{
		SiteName:     siteName,
		SupportEmail: supportEmail,
		Address:      address,
		Year:         time.Now().Year(),
	}
}
