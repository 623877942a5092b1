package validation

import (
	"testing"

	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type card struct {
	Number string `json:"cardNumber" validate:"cardnumber"`
	Expiry string `json:"cardExpiry" validate:"cardexpiry"`
	CVC    string `json:"cardCvc" validate:"cvc"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(account{Username: "jane_doe", Email: "jane@example.com", Password: "secret1"}))
	assert.NoError(t, Struct(card{Number: "4242424242424242", Expiry: "12/30", CVC: "123"}))
}

func TestStruct_ReportsFieldsByJSONName(t *testing.T) {
	err := Struct(account{Username: "ab", Email: "nope", Password: "123"})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindInvalidArgument, appErr.Kind)

	fields := map[string]string{}
	for _, f := range appErr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Equal(t, "password must be at least 6 characters", fields["password"])
}

func TestCardRules(t *testing.T) {
	tests := []struct {
		name  string
		card  card
		field string
	}{
		{"short number", card{"424242424242", "12/30", "123"}, "cardNumber"},
		{"long number", card{"42424242424242424242", "12/30", "123"}, "cardNumber"},
		{"letters in number", card{"4242abcd42424242", "12/30", "123"}, "cardNumber"},
		{"month 13", card{"4242424242424242", "13/30", "123"}, "cardExpiry"},
		{"four digit year", card{"4242424242424242", "12/2030", "123"}, "cardExpiry"},
		{"short cvc", card{"4242424242424242", "12/30", "12"}, "cardCvc"},
		{"long cvc", card{"4242424242424242", "12/30", "12345"}, "cardCvc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.card)
			require.Error(t, err)
			appErr, _ := apperror.As(err)
			require.Len(t, appErr.Fields, 1)
			assert.Equal(t, tt.field, appErr.Fields[0].Field)
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsUsername("user_01"))
	assert.False(t, IsUsername("us"))
	assert.False(t, IsUsername("has space"))
	assert.Equal(t, "4242424242424242", NormalizeCardNumber("4242 4242-4242 4242"))
}
