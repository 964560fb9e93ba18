package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/plantstore/internal/config"
	inErrors "github.com/Alturino/plantstore/internal/errors"
)

type address struct {
	PostalCode  string          `validate:"required,postalcode" json:"postalCode"`
	PhoneNumber string          `validate:"required,phone"      json:"phoneNumber"`
	Price       decimal.Decimal `validate:"price"               json:"price"`
	Landmark    string          `                               json:"landmark,omitempty"`
}

var checkoutConfig = config.Checkout{PhoneDigits: 10, PostalCodeDigits: 6}

func TestValidator(t *testing.T) {
	tests := []struct {
		name           string
		input          address
		expectedFields map[string]string
	}{
		{
			name:  "valid address without landmark",
			input: address{PostalCode: "560001", PhoneNumber: "9876543210", Price: decimal.NewFromInt(199)},
		},
		{
			name:  "short postal code and phone",
			input: address{PostalCode: "5600", PhoneNumber: "98765", Price: decimal.NewFromInt(1)},
			expectedFields: map[string]string{
				"postalCode":  "must be exactly 6 digits",
				"phoneNumber": "must be exactly 10 digits",
			},
		},
		{
			name:  "letters in phone and negative price",
			input: address{PostalCode: "560001", PhoneNumber: "98765abcde", Price: decimal.NewFromInt(-1)},
			expectedFields: map[string]string{
				"phoneNumber": "must be exactly 10 digits",
				"price":       "must be a non-negative amount",
			},
		},
		{
			name:  "missing fields",
			input: address{Price: decimal.Zero},
			expectedFields: map[string]string{
				"postalCode":  "is required",
				"phoneNumber": "is required",
			},
		},
	}

	v := New(checkoutConfig)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Fields(v.Struct(tt.input), checkoutConfig)
			if tt.expectedFields == nil {
				assert.NoError(t, err)
				return
			}
			validation := &inErrors.ValidationError{}
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.expectedFields, validation.Fields)
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("110001", 6))
	assert.False(t, IsDigits("11000", 6))
	assert.False(t, IsDigits("11000a", 6))
	assert.False(t, IsDigits("١١٠٠٠١", 6), "non ascii digits should be rejected")
}
