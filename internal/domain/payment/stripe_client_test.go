package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStripe(t *testing.T, handler http.Handler) *StripeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewStripeClient(config.PaymentConfig{
		StripeSecretKey: "sk_test_123",
		StripeBaseURL:   srv.URL,
	}, logger.Discard())
	require.NoError(t, err)
	return client
}

func TestNewStripeClient_RequiresKey(t *testing.T) {
	_, err := NewStripeClient(config.PaymentConfig{StripeSecretKey: "  "}, logger.Discard())
	assert.Error(t, err)
}

func TestStripeClient_CreateIntent(t *testing.T) {
	client := newTestStripe(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2550", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
		assert.Equal(t, "o-1", r.PostForm.Get("metadata[orderId]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret","status":"requires_payment_method","amount":2550,"currency":"usd","metadata":{"orderId":"o-1"}}`))
	}))

	intent, err := client.CreateIntent(context.Background(), CreateIntentParams{
		Amount:   2550,
		Currency: "USD",
		Metadata: map[string]string{"orderId": "o-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	assert.Equal(t, StatusRequiresPaymentMethod, intent.Status)
	assert.Equal(t, int64(2550), intent.Amount)
	assert.Equal(t, "usd", intent.Currency)
	assert.Equal(t, "o-1", intent.Metadata["orderId"])
}

func TestStripeClient_ConfirmWithPaymentMethod(t *testing.T) {
	client := newTestStripe(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_1/confirm", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pm_card_visa", r.PostForm.Get("payment_method"))
		assert.Empty(t, r.PostForm.Get("return_url"))

		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","status":"succeeded","amount":1000,"currency":"usd"}`))
	}))

	intent, err := client.ConfirmIntent(context.Background(), "pi_1", ConfirmIntentParams{PaymentMethodID: "pm_card_visa"})
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, intent.Status)
	assert.Equal(t, int64(1000), intent.Amount)
}

func TestStripeClient_ConfirmWithCard(t *testing.T) {
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_methods", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "card", r.PostForm.Get("type"))
		assert.Equal(t, "4242424242424242", r.PostForm.Get("card[number]"))
		assert.Equal(t, "12", r.PostForm.Get("card[exp_month]"))
		assert.Equal(t, "2030", r.PostForm.Get("card[exp_year]"))
		assert.Equal(t, "123", r.PostForm.Get("card[cvc]"))

		_, _ = w.Write([]byte(`{"id":"pm_1","object":"payment_method","type":"card"}`))
	})
	mux.HandleFunc("/v1/payment_intents/pi_1/confirm", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pm_1", r.PostForm.Get("payment_method"))
		assert.Equal(t, "https://shop.example.com/return", r.PostForm.Get("return_url"))

		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","status":"succeeded","amount":1000,"currency":"usd"}`))
	})
	client := newTestStripe(t, mux)

	intent, err := client.ConfirmIntent(context.Background(), "pi_1", ConfirmIntentParams{
		Card:      &Card{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "123"},
		ReturnURL: "https://shop.example.com/return",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, intent.Status)
	assert.Equal(t, []string{"/v1/payment_methods", "/v1/payment_intents/pi_1/confirm"}, calls)
}

func TestStripeClient_ConfirmWithBadExpiry(t *testing.T) {
	client := newTestStripe(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	_, err := client.ConfirmIntent(context.Background(), "pi_1", ConfirmIntentParams{
		Card: &Card{Number: "4242424242424242", ExpMonth: "xx", ExpYear: "2030", CVC: "123"},
	})

	var perr *ProcessorError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "invalid_expiry_month", perr.Code)
}

func TestStripeClient_CardDeclined(t *testing.T) {
	client := newTestStripe(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","decline_code":"generic_decline","message":"Your card was declined."}}`))
	}))

	_, err := client.RetrieveIntent(context.Background(), "pi_1")
	require.Error(t, err)

	var perr *ProcessorError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.IsCardError())
	assert.Equal(t, "card_declined", perr.Code)
	assert.Equal(t, "generic_decline", perr.DeclineCode)
	assert.Equal(t, http.StatusPaymentRequired, perr.StatusCode)
	assert.Equal(t, "Your card was declined.", perr.Message)
}

func TestStripeClient_UnreadableErrorBody(t *testing.T) {
	client := newTestStripe(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))

	_, err := client.RetrieveIntent(context.Background(), "pi_1")
	require.Error(t, err)

	var perr *ProcessorError
	assert.False(t, errors.As(err, &perr))
}
