package usecase

import (
	"fmt"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
)

// providerTimeLayout is the provider's local, zone-less segment timestamp.
const providerTimeLayout = "2006-01-02T15:04:05"

// NormalizeOffers keeps input order and silently drops malformed offers.
func NormalizeOffers(raw *domain.RawSearchResult) []domain.FlightOffer {
	if raw == nil {
		return []domain.FlightOffer{}
	}

	offers := make([]domain.FlightOffer, 0, len(raw.Offers))
	for _, rawOffer := range raw.Offers {
		offer, err := NormalizeOffer(rawOffer, raw.Carriers)
		if err != nil {
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

// NormalizeOffer flattens the first itinerary of an offer. The returned error
// wraps domain.ErrMalformedOffer and names what was missing.
func NormalizeOffer(raw domain.RawOffer, carriers map[string]string) (domain.FlightOffer, error) {
	if len(raw.Itineraries) == 0 {
		return domain.FlightOffer{}, domain.ErrNoItineraries
	}
	itinerary := raw.Itineraries[0]
	if len(itinerary.Segments) == 0 {
		return domain.FlightOffer{}, domain.ErrNoSegments
	}
	if raw.Price == nil {
		return domain.FlightOffer{}, domain.ErrMissingPrice
	}

	first := itinerary.Segments[0]
	last := itinerary.Segments[len(itinerary.Segments)-1]

	departure, err := time.Parse(providerTimeLayout, first.DepartureAt)
	if err != nil {
		return domain.FlightOffer{}, fmt.Errorf("%w: departure %q", domain.ErrInvalidTimestamp, first.DepartureAt)
	}
	arrival, err := time.Parse(providerTimeLayout, last.ArrivalAt)
	if err != nil {
		return domain.FlightOffer{}, fmt.Errorf("%w: arrival %q", domain.ErrInvalidTimestamp, last.ArrivalAt)
	}

	return domain.FlightOffer{
		Origin:        first.DepartureCode,
		Destination:   last.ArrivalCode,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Stops:         len(itinerary.Segments) - 1,
		Duration:      itinerary.Duration,
		CarrierCode:   first.CarrierCode,
		CarrierName:   carrierName(first.CarrierCode, carriers),
		Price:         *raw.Price,
	}, nil
}

func carrierName(code string, carriers map[string]string) string {
	if name, ok := carriers[code]; ok && name != "" {
		return name
	}
	return code
}
