// Package email renders and delivers customer notifications.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/pkg/events"
	"github.com/sirupsen/logrus"
)

const layout = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
<h1 style="color: #333;">{{.SiteName}}</h1>
{{template "content" .}}
<hr>
<p style="font-size: 12px; color: #666;">{{.Address}}<br>Questions? Contact {{.SupportEmail}}<br>&copy; {{.Year}} {{.SiteName}}</p>
</div>
</body>
</html>`

var contents = map[EmailType]string{
	EmailTypeOrderConfirmation: `{{define "content"}}
<p>Thank you for your order.</p>
<p>Order <strong>{{.OrderNumber}}</strong> for {{.TotalItems}} item(s) has been placed on {{.Date}}.</p>
<p>Total: <strong>${{.Amount.StringFixed 2}}</strong></p>
<p>We will email you again once payment is received.</p>
{{end}}`,
	EmailTypePaymentSuccess: `{{define "content"}}
<p>Your payment was received.</p>
<table>
<tr><td>Order</td><td>{{.OrderNumber}}</td></tr>
<tr><td>Amount</td><td>${{.Amount.StringFixed 2}}</td></tr>
<tr><td>Payment reference</td><td>{{.PaymentIntentID}}</td></tr>
<tr><td>Date</td><td>{{.Date}}</td></tr>
</table>
{{end}}`,
	EmailTypePaymentFailed: `{{define "content"}}
<p>We could not process the payment for order <strong>{{.OrderNumber}}</strong>.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Your order is saved and you can retry the payment at any time.</p>
{{end}}`,
}

var subjects = map[EmailType]string{
	EmailTypeOrderConfirmation: "Order confirmation - %s",
	EmailTypePaymentSuccess:    "Payment received - %s",
	EmailTypePaymentFailed:     "Payment failed - %s",
}

// EmailService renders order notifications and hands them to a Mailer
type EmailService struct {
	mailer    Mailer
	app       config.AppConfig
	fromEmail string
	templates map[EmailType]*template.Template
	logger    logrus.FieldLogger
}

// NewEmailService parses the built-in templates
func NewEmailService(mailer Mailer, app config.AppConfig, cfg config.EmailConfig, logger logrus.FieldLogger) (*EmailService, error) {
	s := &EmailService{
		mailer:    mailer,
		app:       app,
		fromEmail: cfg.FromEmail,
		templates: make(map[EmailType]*template.Template, len(contents)),
		logger:    logger,
	}
	for name, content := range contents {
		tmpl, err := template.New(string(name)).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layout: %w", err)
		}
		if _, err := tmpl.Parse(content); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}
	return s, nil
}

func (s *EmailService) SendOrderConfirmation(ctx context.Context, evt *events.OrderEvent) error {
	return s.send(ctx, EmailTypeOrderConfirmation, evt, "")
}

func (s *EmailService) SendPaymentSuccess(ctx context.Context, evt *events.OrderEvent) error {
	return s.send(ctx, EmailTypePaymentSuccess, evt, "")
}

func (s *EmailService) SendPaymentFailed(ctx context.Context, evt *events.OrderEvent, reason string) error {
	return s.send(ctx, EmailTypePaymentFailed, evt, reason)
}

// Render returns the HTML body for an event without sending it
func (s *EmailService) Render(kind EmailType, evt *events.OrderEvent, reason string) (string, error) {
	tmpl, ok := s.templates[kind]
	if !ok {
		return "", fmt.Errorf("template %s not found", kind)
	}

	supportEmail := s.app.CompanyEmail
	if supportEmail == "" {
		supportEmail = s.fromEmail
	}
	occurred := evt.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	data := OrderNotificationData{
		TemplateData:    baseTemplateData(s.siteName(), supportEmail, s.app.CompanyAddress),
		OrderNumber:     evt.OrderNumber,
		Amount:          evt.TotalAmount,
		TotalItems:      evt.TotalItems,
		PaymentIntentID: evt.PaymentIntentID,
		Date:            occurred.Format("January 2, 2006"),
		Reason:          reason,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", kind, err)
	}
	return buf.String(), nil
}

func (s *EmailService) send(ctx context.Context, kind EmailType, evt *events.OrderEvent, reason string) error {
	if evt.Email == "" {
		s.logger.WithField("order_id", evt.OrderID).Warn("no recipient for notification, skipping")
		return nil
	}
	body, err := s.Render(kind, evt, reason)
	if err != nil {
		return err
	}
	msg := &Email{
		To:       []string{evt.Email},
		Subject:  fmt.Sprintf(subjects[kind], evt.OrderNumber),
		HTMLBody: body,
		Type:     kind,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	s.logger.WithFields(logrus.Fields{
		"order_id": evt.OrderID,
		"type":     kind,
	}).Info("notification sent")
	return nil
}

func (s *EmailService) siteName() string {
	if s.app.CompanyName != "" {
		return s.app.CompanyName
	}
	return s.app.Name
}
