package mockprovider

import (
	"context"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cannedFlight struct {
	carrier  string
	number   string
	departAt string
	arriveAt string
	duration string
	price    string
}

var cannedFlights = []cannedFlight{
	{carrier: "G3", number: "1402", departAt: "06:30:00", arriveAt: "07:35:00", duration: "PT1H5M", price: "280.50"},
	{carrier: "LA", number: "3340", departAt: "07:15:00", arriveAt: "08:25:00", duration: "PT1H10M", price: "320.00"},
	{carrier: "AD", number: "4010", departAt: "08:20:00", arriveAt: "09:30:00", duration: "PT1H10M", price: "298.75"},
}

var cannedCarriers = map[string]string{
	"G3": "Gol",
	"LA": "Latam",
	"AD": "Azul",
}

// Searcher answers every route with the same three direct flights. It is used
// for local development when no provider credentials are configured.
type Searcher struct {
	logger *zap.Logger
}

func NewSearcher(logger *zap.Logger) *Searcher {
	return &Searcher{logger: logger}
}

func (s *Searcher) SearchOffers(ctx context.Context, origin, destination, date string) (*domain.RawSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("mock flight search", zap.String("origin", origin), zap.String("destination", destination), zap.String("date", date))

	carriers := make(map[string]string, len(cannedCarriers))
	for code, name := range cannedCarriers {
		carriers[code] = name
	}

	result := &domain.RawSearchResult{Offers: make([]domain.RawOffer, 0, len(cannedFlights)), Carriers: carriers}
	for _, flight := range cannedFlights {
		price := decimal.RequireFromString(flight.price)
		result.Offers = append(result.Offers, domain.RawOffer{
			ID: flight.carrier + flight.number,
			Itineraries: []domain.RawItinerary{{
				Duration: flight.duration,
				Segments: []domain.RawSegment{{
					DepartureCode: origin,
					DepartureAt:   date + "T" + flight.departAt,
					ArrivalCode:   destination,
					ArrivalAt:     date + "T" + flight.arriveAt,
					CarrierCode:   flight.carrier,
					Number:        flight.number,
				}},
			}},
			Price: &price,
		})
	}
	return result, nil
}
