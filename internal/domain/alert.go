package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LocationCodeLength  = 3
	MaxContactIDLength  = 20
	targetPriceDecimals = 2
	targetPriceDigits   = 10
)

var (
	ErrInvalidContactID    = errors.New("invalid user contact id")
	ErrInvalidLocationCode = errors.New("invalid location code")
	ErrInvalidTargetPrice  = errors.New("invalid target price")

	ErrInvalidOrigin      = fmt.Errorf("origin: %w", ErrInvalidLocationCode)
	ErrInvalidDestination = fmt.Errorf("destination: %w", ErrInvalidLocationCode)
)

// PriceAlert is a user's request to be told when the cheapest fare on a route
// drops to TargetPrice or below. IsActive is the only field that changes after
// creation.
type PriceAlert struct {
	ID              uint
	UserContactID   string
	OriginCode      string
	DestinationCode string
	TargetPrice     decimal.Decimal
	CreatedAt       time.Time
	IsActive        bool
}

func NewPriceAlert(contactID, origin, destination, targetPrice string) (*PriceAlert, error) {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" || len(contactID) > MaxContactIDLength {
		return nil, ErrInvalidContactID
	}

	originCode, err := NormalizeLocationCode(origin)
	if err != nil {
		return nil, ErrInvalidOrigin
	}
	destinationCode, err := NormalizeLocationCode(destination)
	if err != nil {
		return nil, ErrInvalidDestination
	}

	price, err := ParseTargetPrice(targetPrice)
	if err != nil {
		return nil, err
	}

	return &PriceAlert{
		UserContactID:   contactID,
		OriginCode:      originCode,
		DestinationCode: destinationCode,
		TargetPrice:     price,
		IsActive:        true,
	}, nil
}

// Deactivate reports whether the alert was active before the call.
func (a *PriceAlert) Deactivate() bool {
	if !a.IsActive {
		return false
	}
	a.IsActive = false
	return true
}

func (a *PriceAlert) String() string {
	status := "active"
	if !a.IsActive {
		status = "inactive"
	}
	return fmt.Sprintf("Alert %s -> %s at %s (%s)", a.OriginCode, a.DestinationCode, a.TargetPrice.StringFixed(targetPriceDecimals), status)
}

func NormalizeLocationCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != LocationCodeLength {
		return "", ErrInvalidLocationCode
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidLocationCode
		}
	}
	return code, nil
}

// ParseTargetPrice accepts amounts that fit numeric(10,2).
func ParseTargetPrice(input string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Decimal{}, ErrInvalidTargetPrice
	}
	return price, ValidateTargetPrice(price)
}

func ValidateTargetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidTargetPrice
	}
	if !price.Equal(price.Truncate(targetPriceDecimals)) {
		return ErrInvalidTargetPrice
	}
	if len(price.Truncate(0).String()) > targetPriceDigits-targetPriceDecimals {
		return ErrInvalidTargetPrice
	}
	return nil
}

// FormatAmount renders money with at least two fractional digits and never
// drops precision the value actually carries.
func FormatAmount(amount decimal.Decimal) string {
	if amount.Exponent() < -targetPriceDecimals {
		return amount.String()
	}
	return amount.StringFixed(targetPriceDecimals)
}
