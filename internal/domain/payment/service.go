// internal/domain/payment/service.go
package payment

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopfront/storefront-api/internal/pkg/money"
	"github.com/shopfront/storefront-api/internal/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var currencyPattern = regexp.MustCompile(`^[a-zA-Z]{3}$`)

// Orders is the part of the order service driven by payment outcomes.
type Orders interface {
	GetUserOrder(ctx context.Context, userID, id string) (*order.Order, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*order.Order, error)
	LinkPaymentIntent(ctx context.Context, o *order.Order, intentID string) error
	MarkPaid(ctx context.Context, o *order.Order, intentID string) error
	MarkPaymentFailed(ctx context.Context, o *order.Order, intentID string) error
}

// Service orchestrates the payment intent lifecycle
type Service struct {
	processor Processor
	orders    Orders
	returnURL string
	currency  string
	logger    logrus.FieldLogger
}

// NewService creates a new payment service. Orders are priced in
// cfg.Currency, "usd" when unset.
func NewService(processor Processor, orders Orders, cfg config.PaymentConfig, logger logrus.FieldLogger) *Service {
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		processor: processor,
		orders:    orders,
		returnURL: cfg.ReturnURL,
		currency:  currency,
		logger:    logger,
	}
}

// CreateIntentRequest represents a request to start a payment
type CreateIntentRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
	OrderID  string           `json:"orderId"`
	UserID   string           `json:"userId"`
	Email    string           `json:"email"`
}

// CreateIntentResponse carries what the client needs to complete a payment
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// ConfirmRequest represents a payment confirmation
type ConfirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	OrderID         string `json:"orderId"`
	PaymentMethodID string `json:"paymentMethodId"`
	StripeToken     string `json:"stripeToken"`
	CardNumber      string `json:"cardNumber" validate:"omitempty,cardnumber"`
	CardExpiry      string `json:"cardExpiry" validate:"omitempty,cardexpiry"`
	CardCvc         string `json:"cardCvc" validate:"omitempty,cvc"`
}

// Outcome is the local result of a confirmation.
type Outcome string

const (
	OutcomeSucceeded  Outcome = "succeeded"
	OutcomeProcessing Outcome = "processing"
)

// ConfirmResult is returned for succeeded and processing intents; every
// other status is reported as a PaymentRejected error.
type ConfirmResult struct {
	Outcome         Outcome      `json:"-"`
	PaymentIntentID string       `json:"paymentIntentId"`
	Status          IntentStatus `json:"status"`
	OrderID         string       `json:"orderId,omitempty"`
}

// StatusResponse is the read-through state of an intent
type StatusResponse struct {
	Status   IntentStatus    `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CreateIntent asks the processor for a new intent and links it to the
// caller's order when one is named. An intent for an order must charge
// exactly the order total in the store currency.
func (s *Service) CreateIntent(ctx context.Context, principal auth.Principal, req *CreateIntentRequest) (*CreateIntentResponse, error) {
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if req.Amount == nil || currency == "" {
		return nil, apperror.InvalidArgument("Amount and currency are required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.InvalidArgument("Invalid amount",
			apperror.FieldError{Field: "amount", Message: "amount must be greater than 0"})
	}
	if !currencyPattern.MatchString(currency) {
		return nil, apperror.InvalidArgument("Invalid currency",
			apperror.FieldError{Field: "currency", Message: "currency must be a 3-letter ISO code"})
	}

	minor := money.ToMinorUnits(*req.Amount)
	if minor <= 0 {
		return nil, apperror.InvalidArgument("Invalid amount",
			apperror.FieldError{Field: "amount", Message: "amount must be at least 0.01"})
	}

	var o *order.Order
	orderID := strings.TrimSpace(req.OrderID)
	if orderID != "" {
		var err error
		if o, err = s.orders.GetUserOrder(ctx, principal.ID, orderID); err != nil {
			return nil, err
		}
		if o.IsPaid() {
			return nil, apperror.InvalidArgument("Order is already paid")
		}
		if minor != money.ToMinorUnits(o.TotalAmount) {
			return nil, apperror.InvalidArgument("Amount does not match the order total",
				apperror.FieldError{Field: "amount", Message: "amount must equal the order total " + o.TotalAmount.StringFixed(2)})
		}
		if currency != s.currency {
			return nil, apperror.InvalidArgument("Currency does not match the order currency",
				apperror.FieldError{Field: "currency", Message: "currency must be " + s.currency})
		}
	}

	intent, err := s.processor.CreateIntent(ctx, CreateIntentParams{
		Amount:   minor,
		Currency: currency,
		Metadata: map[string]string{
			"orderId": orDefault(orderID, "N/A"),
			"userId":  orDefault(strings.TrimSpace(req.UserID), principal.ID),
			"email":   orDefault(strings.TrimSpace(req.Email), principal.Email),
		},
	})
	if err != nil {
		return nil, s.processorFailure("create intent", err)
	}

	if o != nil {
		if err := s.orders.LinkPaymentIntent(ctx, o, intent.ID); err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"payment_intent_id": intent.ID,
		"order_id":          orderID,
		"amount":            minor,
	}).Info("payment intent created")

	return &CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// Confirm submits or re-reads an intent and applies its outcome to the
// associated order.
func (s *Service) Confirm(ctx context.Context, principal auth.Principal, req *ConfirmRequest) (*ConfirmResult, error) {
	req.PaymentIntentID = strings.TrimSpace(req.PaymentIntentID)
	req.CardNumber = validation.NormalizeCardNumber(strings.TrimSpace(req.CardNumber))
	req.CardExpiry = strings.TrimSpace(req.CardExpiry)
	req.CardCvc = strings.TrimSpace(req.CardCvc)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	card, err := cardFrom(req)
	if err != nil {
		return nil, err
	}

	o, err := s.resolveOrder(ctx, principal, req)
	if err != nil {
		return nil, err
	}

	methodID := orDefault(strings.TrimSpace(req.PaymentMethodID), strings.TrimSpace(req.StripeToken))

	var intent *Intent
	if methodID != "" || card != nil {
		intent, err = s.processor.ConfirmIntent(ctx, req.PaymentIntentID, ConfirmIntentParams{
			PaymentMethodID: methodID,
			Card:            card,
			ReturnURL:       s.returnURL,
		})
	} else {
		intent, err = s.processor.RetrieveIntent(ctx, req.PaymentIntentID)
	}
	if err != nil {
		var perr *ProcessorError
		if errors.As(err, &perr) && perr.IsCardError() && o != nil {
			s.markFailed(ctx, o, req.PaymentIntentID)
		}
		return nil, s.processorFailure("confirm intent", err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"payment_intent_id": intent.ID,
		"status":            intent.Status,
	})

	result := &ConfirmResult{PaymentIntentID: intent.ID, Status: intent.Status}
	if o != nil {
		result.OrderID = o.ID
	}

	switch intent.Status {
	case StatusSucceeded:
		if o != nil {
			if !s.coversOrder(intent, o) {
				log.WithFields(logrus.Fields{
					"order_id":    o.ID,
					"order_total": o.TotalAmount.StringFixed(2),
					"amount":      intent.Amount,
					"currency":    intent.Currency,
				}).Warn("payment does not cover the order total")
				return nil, apperror.PaymentRejected("Payment amount does not match the order total", nil)
			}
			if err := s.orders.MarkPaid(ctx, o, intent.ID); err != nil {
				return nil, err
			}
		} else {
			log.Warn("payment succeeded without an associated order")
		}
		log.Info("payment succeeded")
		result.Outcome = OutcomeSucceeded
		return result, nil
	case StatusProcessing:
		log.Info("payment processing")
		result.Outcome = OutcomeProcessing
		return result, nil
	case StatusRequiresPaymentMethod:
		if o != nil {
			s.markFailed(ctx, o, intent.ID)
		}
		log.Warn("payment requires a payment method")
		return nil, apperror.PaymentRejected("Payment method required", nil)
	default:
		if o != nil {
			s.markFailed(ctx, o, intent.ID)
		}
		log.Warn("payment failed")
		return nil, apperror.PaymentRejected("Payment failed", nil)
	}
}

// Status reads the intent state from the processor.
func (s *Service) Status(ctx context.Context, intentID string) (*StatusResponse, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, apperror.InvalidArgument("Payment intent ID is required")
	}

	intent, err := s.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		var perr *ProcessorError
		if errors.As(err, &perr) && perr.StatusCode == 404 {
			return nil, apperror.NotFound("Payment intent not found")
		}
		return nil, s.processorFailure("retrieve intent", err)
	}

	return &StatusResponse{
		Status:   intent.Status,
		Amount:   money.FromMinorUnits(intent.Amount),
		Currency: intent.Currency,
	}, nil
}

func (s *Service) resolveOrder(ctx context.Context, principal auth.Principal, req *ConfirmRequest) (*order.Order, error) {
	if id := strings.TrimSpace(req.OrderID); id != "" {
		return s.orders.GetUserOrder(ctx, principal.ID, id)
	}

	o, err := s.orders.FindByPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != principal.ID {
		return nil, nil
	}
	return o, nil
}

// coversOrder reports whether a succeeded intent charged exactly the order
// total in the store currency.
func (s *Service) coversOrder(intent *Intent, o *order.Order) bool {
	return intent.Amount == money.ToMinorUnits(o.TotalAmount) &&
		strings.EqualFold(intent.Currency, s.currency)
}

func (s *Service) markFailed(ctx context.Context, o *order.Order, intentID string) {
	if err := s.orders.MarkPaymentFailed(ctx, o, intentID); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).Error("failed to record payment failure")
	}
}

func (s *Service) processorFailure(op string, err error) error {
	var perr *ProcessorError
	if errors.As(err, &perr) {
		s.logger.WithError(err).WithField("op", op).Warn("payment processor rejected request")
		return apperror.PaymentRejected(perr.Message, err)
	}
	s.logger.WithError(err).WithField("op", op).Error("payment processor unavailable")
	return apperror.Unexpected("Payment processor unavailable", err)
}

func cardFrom(req *ConfirmRequest) (*Card, error) {
	present := 0
	for _, v := range []string{req.CardNumber, req.CardExpiry, req.CardCvc} {
		if v != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present < 3 {
		return nil, apperror.InvalidArgument("Card number, expiry and CVC are all required")
	}

	parts := strings.SplitN(req.CardExpiry, "/", 2)
	return &Card{
		Number:   req.CardNumber,
		ExpMonth: parts[0],
		ExpYear:  "20" + parts[1],
		CVC:      req.CardCvc,
	}, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
