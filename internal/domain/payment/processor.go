// internal/domain/payment/processor.go
package payment

import (
	"context"
	"fmt"
)

// IntentStatus is the processor-side state of a payment intent.
type IntentStatus string

const (
	StatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	StatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	StatusRequiresAction        IntentStatus = "requires_action"
	StatusProcessing            IntentStatus = "processing"
	StatusSucceeded             IntentStatus = "succeeded"
	StatusCanceled              IntentStatus = "canceled"
)

// Intent is one attempted charge at the processor. Amount is in minor units.
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	Amount       int64
	Currency     string
	Metadata     map[string]string
	LastError    *ProcessorError
}

// Card carries raw card details forwarded to the processor.
type Card struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// CreateIntentParams describes a new intent.
type CreateIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// ConfirmIntentParams carries what the processor needs to charge an intent.
// Either PaymentMethodID or Card is set.
type ConfirmIntentParams struct {
	PaymentMethodID string
	Card            *Card
	ReturnURL       string
}

// Processor is the external payment-intent API.
type Processor interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	ConfirmIntent(ctx context.Context, id string, params ConfirmIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}

// ProcessorError is an error reported by the processor API.
type ProcessorError struct {
	Type        string
	Code        string
	DeclineCode string
	Message     string
	StatusCode  int
}

func (e *ProcessorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment processor error (%s/%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("payment processor error (%s): %s", e.Type, e.Message)
}

// IsCardError reports whether the card itself was declined.
func (e *ProcessorError) IsCardError() bool {
	return e.Type == "card_error"
}
