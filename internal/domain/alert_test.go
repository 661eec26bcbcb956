package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceAlert(t *testing.T) {
	alert, err := NewPriceAlert(" 5511999998888 ", "mad", "bcn", "500.00")
	require.NoError(t, err)

	assert.Equal(t, "5511999998888", alert.UserContactID)
	assert.Equal(t, "MAD", alert.OriginCode)
	assert.Equal(t, "BCN", alert.DestinationCode)
	assert.True(t, alert.TargetPrice.Equal(decimal.RequireFromString("500")))
	assert.True(t, alert.IsActive)
}

func TestNewPriceAlertValidation(t *testing.T) {
	cases := []struct {
		name        string
		contactID   string
		origin      string
		destination string
		price       string
		want        error
	}{
		{"empty contact", "", "MAD", "BCN", "10", ErrInvalidContactID},
		{"long contact", "123456789012345678901", "MAD", "BCN", "10", ErrInvalidContactID},
		{"short origin", "c1", "MA", "BCN", "10", ErrInvalidLocationCode},
		{"digits in destination", "c1", "MAD", "B2N", "10", ErrInvalidLocationCode},
		{"negative price", "c1", "MAD", "BCN", "-1", ErrInvalidTargetPrice},
		{"three decimals", "c1", "MAD", "BCN", "10.001", ErrInvalidTargetPrice},
		{"too many digits", "c1", "MAD", "BCN", "123456789.00", ErrInvalidTargetPrice},
		{"not a number", "c1", "MAD", "BCN", "cheap", ErrInvalidTargetPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPriceAlert(tc.contactID, tc.origin, tc.destination, tc.price)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestValidateTargetPriceAcceptsLimits(t *testing.T) {
	for _, value := range []string{"0", "0.01", "99999999.99", "500.5"} {
		assert.NoError(t, ValidateTargetPrice(decimal.RequireFromString(value)), value)
	}
}

func TestPriceAlertDeactivateOnce(t *testing.T) {
	alert := &PriceAlert{IsActive: true}

	assert.True(t, alert.Deactivate())
	assert.False(t, alert.IsActive)
	assert.False(t, alert.Deactivate())
	assert.False(t, alert.IsActive)
}

func TestPriceAlertString(t *testing.T) {
	alert := &PriceAlert{OriginCode: "MAD", DestinationCode: "BCN", TargetPrice: decimal.RequireFromString("500"), IsActive: true}
	assert.Equal(t, "Alert MAD -> BCN at 500.00 (active)", alert.String())

	alert.Deactivate()
	assert.Equal(t, "Alert MAD -> BCN at 500.00 (inactive)", alert.String())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500.00", FormatAmount(decimal.RequireFromString("500")))
	assert.Equal(t, "450.35", FormatAmount(decimal.RequireFromString("450.35")))
	assert.Equal(t, "450.355", FormatAmount(decimal.RequireFromString("450.355")))
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentCreateAlert, ParseIntent("create_alert"))
	assert.Equal(t, IntentUnknown, ParseIntent("book_hotel"))
	assert.Equal(t, IntentUnknown, ParseIntent(""))
}

func TestProviderErrorMatchesSentinel(t *testing.T) {
	var err error = &ProviderError{Status: 400, Detail: "INVALID DATE"}
	assert.True(t, errors.Is(err, ErrProviderFailure))
	assert.Equal(t, "flight provider failure: status 400: INVALID DATE", err.Error())
}
