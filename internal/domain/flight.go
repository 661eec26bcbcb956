package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date used for provider searches.
const DateLayout = "2006-01-02"

var (
	ErrMalformedOffer   = errors.New("malformed offer")
	ErrNoItineraries    = fmt.Errorf("%w: no itineraries", ErrMalformedOffer)
	ErrNoSegments       = fmt.Errorf("%w: no segments", ErrMalformedOffer)
	ErrMissingPrice     = fmt.Errorf("%w: missing price", ErrMalformedOffer)
	ErrInvalidTimestamp = fmt.Errorf("%w: invalid timestamp", ErrMalformedOffer)

	ErrProviderFailure = errors.New("flight provider failure")
)

// RawSearchResult is one provider response, still shaped like the provider's
// payload. Carriers maps carrier codes to display names and may be nil.
type RawSearchResult struct {
	Offers   []RawOffer        `json:"offers"`
	Carriers map[string]string `json:"carriers,omitempty"`
}

type RawOffer struct {
	ID          string           `json:"id"`
	Itineraries []RawItinerary   `json:"itineraries"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

type RawItinerary struct {
	Duration string       `json:"duration"`
	Segments []RawSegment `json:"segments"`
}

type RawSegment struct {
	DepartureCode string `json:"departure_code"`
	DepartureAt   string `json:"departure_at"`
	ArrivalCode   string `json:"arrival_code"`
	ArrivalAt     string `json:"arrival_at"`
	CarrierCode   string `json:"carrier_code"`
	Number        string `json:"number"`
}

// FlightOffer is the flat form of the first itinerary of a provider offer.
type FlightOffer struct {
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureTime time.Time       `json:"departure_time"`
	ArrivalTime   time.Time       `json:"arrival_time"`
	Stops         int             `json:"stops"`
	Duration      string          `json:"duration"`
	CarrierCode   string          `json:"carrier_code"`
	CarrierName   string          `json:"carrier_name"`
	Price         decimal.Decimal `json:"price"`
}

// ProviderError carries the detail reported by the flight provider.
type ProviderError struct {
	Status int
	Detail string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("flight provider failure: %s", e.Detail)
	}
	return fmt.Sprintf("flight provider failure: status %d: %s", e.Status, e.Detail)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailure
}

type FlightSearcher interface {
	SearchOffers(ctx context.Context, origin, destination, date string) (*RawSearchResult, error)
}
