package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOffersFlattensFirstItinerary(t *testing.T) {
	raw := &domain.RawSearchResult{
		Offers: []domain.RawOffer{{
			ID: "1",
			Itineraries: []domain.RawItinerary{
				{
					Duration: "PT5H30M",
					Segments: []domain.RawSegment{
						segment("GRU", "GIG", "2026-11-02T06:30:00", "2026-11-02T07:35:00", "G3"),
						segment("GIG", "SSA", "2026-11-02T09:00:00", "2026-11-02T12:00:00", "AD"),
					},
				},
				{
					Duration: "PT2H",
					Segments: []domain.RawSegment{segment("SSA", "GRU", "2026-11-09T10:00:00", "2026-11-09T12:00:00", "LA")},
				},
			},
			Price: price("450.35"),
		}},
		Carriers: map[string]string{"G3": "GOL Linhas Aereas"},
	}

	offers := NormalizeOffers(raw)
	require.Len(t, offers, 1)

	offer := offers[0]
	assert.Equal(t, "GRU", offer.Origin)
	assert.Equal(t, "SSA", offer.Destination)
	assert.Equal(t, time.Date(2026, 11, 2, 6, 30, 0, 0, time.UTC), offer.DepartureTime)
	assert.Equal(t, time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC), offer.ArrivalTime)
	assert.Equal(t, 1, offer.Stops)
	assert.Equal(t, "PT5H30M", offer.Duration)
	assert.Equal(t, "G3", offer.CarrierCode)
	assert.Equal(t, "GOL Linhas Aereas", offer.CarrierName)
	assert.Equal(t, "450.35", offer.Price.String())
}

func TestNormalizeOffersCarrierFallsBackToCode(t *testing.T) {
	raw := &domain.RawSearchResult{Offers: []domain.RawOffer{directOffer("1", "MAD", "BCN", "VY", "99.90")}}

	offers := NormalizeOffers(raw)
	require.Len(t, offers, 1)
	assert.Equal(t, "VY", offers[0].CarrierName)
	assert.Equal(t, 0, offers[0].Stops)
}

func TestNormalizeOffersSkipsMalformedAndKeepsOrder(t *testing.T) {
	noItineraries := domain.RawOffer{ID: "no-itineraries", Price: price("10")}
	noSegments := domain.RawOffer{ID: "no-segments", Itineraries: []domain.RawItinerary{{Duration: "PT1H"}}, Price: price("10")}
	noPrice := directOffer("no-price", "MAD", "BCN", "IB", "1")
	noPrice.Price = nil
	badTime := directOffer("bad-time", "MAD", "BCN", "IB", "20")
	badTime.Itineraries[0].Segments[0].DepartureAt = "tomorrow morning"

	raw := &domain.RawSearchResult{Offers: []domain.RawOffer{
		directOffer("a", "MAD", "BCN", "IB", "300"),
		noItineraries,
		noSegments,
		directOffer("b", "MAD", "BCN", "VY", "120"),
		noPrice,
		badTime,
		directOffer("c", "MAD", "BCN", "UX", "210"),
	}}

	offers := NormalizeOffers(raw)
	require.Len(t, offers, 3)
	assert.Equal(t, "IB", offers[0].CarrierCode)
	assert.Equal(t, "VY", offers[1].CarrierCode)
	assert.Equal(t, "UX", offers[2].CarrierCode)
}

func TestNormalizeOffersEmptySegmentsIsSkipped(t *testing.T) {
	raw := &domain.RawSearchResult{Offers: []domain.RawOffer{
		{ID: "1", Itineraries: []domain.RawItinerary{{Duration: "PT1H", Segments: []domain.RawSegment{}}}, Price: price("100")},
		directOffer("2", "MAD", "BCN", "IB", "200"),
	}}

	var offers []domain.FlightOffer
	require.NotPanics(t, func() { offers = NormalizeOffers(raw) })
	require.Len(t, offers, 1)
	assert.Equal(t, "200", offers[0].Price.String())
}

func TestNormalizeOffersNilAndEmpty(t *testing.T) {
	assert.Empty(t, NormalizeOffers(nil))
	assert.Empty(t, NormalizeOffers(&domain.RawSearchResult{}))
}

func TestNormalizeOfferReportsReason(t *testing.T) {
	cases := []struct {
		name  string
		offer domain.RawOffer
		want  error
	}{
		{"no itineraries", domain.RawOffer{Price: price("1")}, domain.ErrNoItineraries},
		{"no segments", domain.RawOffer{Itineraries: []domain.RawItinerary{{}}, Price: price("1")}, domain.ErrNoSegments},
		{"no price", domain.RawOffer{Itineraries: []domain.RawItinerary{{Segments: []domain.RawSegment{segment("A", "B", "", "", "X")}}}}, domain.ErrMissingPrice},
		{"bad arrival", domain.RawOffer{Itineraries: []domain.RawItinerary{{Segments: []domain.RawSegment{segment("A", "B", "2026-10-20T07:00:00", "", "X")}}}, Price: price("1")}, domain.ErrInvalidTimestamp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeOffer(tc.offer, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))
			assert.True(t, errors.Is(err, domain.ErrMalformedOffer))
		})
	}
}

func TestNormalizeOffersDoesNotMutateInput(t *testing.T) {
	raw := &domain.RawSearchResult{Offers: []domain.RawOffer{directOffer("1", "MAD", "BCN", "IB", "100")}}
	before := raw.Offers[0].Price.String()

	offers := NormalizeOffers(raw)
	offers[0].CarrierName = "changed"

	assert.Equal(t, before, raw.Offers[0].Price.String())
	assert.Equal(t, "IB", raw.Offers[0].Itineraries[0].Segments[0].CarrierCode)
}
