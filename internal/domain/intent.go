package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrClassifierFailure marks any error where the classifier could not produce
// an intent: transport, non-2xx answers and unusable replies.
var ErrClassifierFailure = errors.New("message classifier failure")

type Intent string

const (
	IntentSearchFlight Intent = "search_flight"
	IntentCreateAlert  Intent = "create_alert"
	IntentGreeting     Intent = "greeting"
	IntentHelp         Intent = "help"
	IntentUnknown      Intent = "unknown"
)

// ParseIntent maps anything outside the known set to IntentUnknown.
func ParseIntent(value string) Intent {
	switch Intent(value) {
	case IntentSearchFlight, IntentCreateAlert, IntentGreeting, IntentHelp:
		return Intent(value)
	default:
		return IntentUnknown
	}
}

type MessageEntities struct {
	Origin        *string          `json:"origin"`
	Destination   *string          `json:"destination"`
	DepartureDate *string          `json:"departure_date"`
	TargetPrice   *decimal.Decimal `json:"target_price"`
}

type MessageIntent struct {
	Intent   Intent          `json:"intent"`
	Entities MessageEntities `json:"entities"`
}

type MessageClassifier interface {
	Classify(ctx context.Context, text, referenceDate string) (*MessageIntent, error)
}
