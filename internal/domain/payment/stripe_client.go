// internal/domain/payment/stripe_client.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/shopfront/storefront-api/internal/config"
)

// StripeClient implements Processor on top of the Stripe SDK.
type StripeClient struct {
	api *client.API
}

// stripeLogger routes SDK logs through logrus. The SDK logs every request
// at info, which is demoted to debug.
type stripeLogger struct {
	logrus.FieldLogger
}

func (l stripeLogger) Infof(format string, v ...interface{}) {
	l.FieldLogger.Debugf(format, v...)
}

// NewStripeClient builds the SDK client once. It fails when no secret key is configured.
func NewStripeClient(cfg config.PaymentConfig, logger logrus.FieldLogger) (*StripeClient, error) {
	key := strings.TrimSpace(cfg.StripeSecretKey)
	if key == "" {
		return nil, errors.New("stripe secret key is not configured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	base := stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		LeveledLogger:     stripeLogger{logger.WithField("component", "stripe")},
		MaxNetworkRetries: stripe.Int64(int64(retries)),
		EnableTelemetry:   stripe.Bool(false),
	}
	apiCfg := base
	if u := strings.TrimRight(cfg.StripeBaseURL, "/"); u != "" {
		apiCfg.URL = stripe.String(u)
	}
	connectCfg, uploadsCfg := base, base

	api := &client.API{}
	api.Init(key, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, &apiCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, &connectCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, &uploadsCfg),
	})

	return &StripeClient{api: api}, nil
}

// CreateIntent creates a payment intent with automatic payment methods.
func (s *StripeClient) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	p := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(strings.ToLower(params.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	p.Context = ctx
	for k, v := range params.Metadata {
		p.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(p)
	if err != nil {
		return nil, fromStripeError(err)
	}
	return intentFromStripe(pi), nil
}

// ConfirmIntent confirms an intent with a saved payment method or a raw card.
// A raw card is first registered as a payment method.
func (s *StripeClient) ConfirmIntent(ctx context.Context, id string, params ConfirmIntentParams) (*Intent, error) {
	p := &stripe.PaymentIntentConfirmParams{}
	p.Context = ctx

	switch {
	case params.PaymentMethodID != "":
		p.PaymentMethod = stripe.String(params.PaymentMethodID)
	case params.Card != nil:
		pmID, err := s.cardPaymentMethod(ctx, params.Card)
		if err != nil {
			return nil, err
		}
		p.PaymentMethod = stripe.String(pmID)
	}
	if params.ReturnURL != "" {
		p.ReturnURL = stripe.String(params.ReturnURL)
	}

	pi, err := s.api.PaymentIntents.Confirm(id, p)
	if err != nil {
		return nil, fromStripeError(err)
	}
	return intentFromStripe(pi), nil
}

// RetrieveIntent fetches the current state of an intent.
func (s *StripeClient) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	p := &stripe.PaymentIntentParams{}
	p.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, p)
	if err != nil {
		return nil, fromStripeError(err)
	}
	return intentFromStripe(pi), nil
}

func (s *StripeClient) cardPaymentMethod(ctx context.Context, card *Card) (string, error) {
	month, err := strconv.ParseInt(card.ExpMonth, 10, 64)
	if err != nil {
		return "", &ProcessorError{Type: "invalid_request_error", Code: "invalid_expiry_month", Message: "Invalid card expiry month"}
	}
	year, err := strconv.ParseInt(card.ExpYear, 10, 64)
	if err != nil {
		return "", &ProcessorError{Type: "invalid_request_error", Code: "invalid_expiry_year", Message: "Invalid card expiry year"}
	}

	p := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(month),
			ExpYear:  stripe.Int64(year),
			CVC:      stripe.String(card.CVC),
		},
	}
	p.Context = ctx

	pm, err := s.api.PaymentMethods.New(p)
	if err != nil {
		return "", fromStripeError(err)
	}
	return pm.ID, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       IntentStatus(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
	if pi.LastPaymentError != nil {
		intent.LastError = processorErrorFrom(pi.LastPaymentError)
	}
	return intent
}

// fromStripeError converts SDK API errors into ProcessorError. Transport
// failures and unreadable responses are wrapped as-is.
func fromStripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return processorErrorFrom(se)
	}
	return fmt.Errorf("stripe request failed: %w", err)
}

func processorErrorFrom(se *stripe.Error) *ProcessorError {
	return &ProcessorError{
		Type:        string(se.Type),
		Code:        string(se.Code),
		DeclineCode: string(se.DeclineCode),
		Message:     se.Msg,
		StatusCode:  se.HTTPStatusCode,
	}
}
