package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingSearcher struct {
	calls  int
	result *domain.RawSearchResult
	err    error
}

func (s *countingSearcher) SearchOffers(context.Context, string, string, string) (*domain.RawSearchResult, error) {
	s.calls++
	return s.result, s.err
}

func sampleResult() *domain.RawSearchResult {
	price := decimal.RequireFromString("280.50")
	return &domain.RawSearchResult{
		Offers: []domain.RawOffer{{
			ID:    "1",
			Price: &price,
			Itineraries: []domain.RawItinerary{{
				Duration: "PT1H5M",
				Segments: []domain.RawSegment{{DepartureCode: "GRU", ArrivalCode: "SDU", CarrierCode: "G3"}},
			}},
		}},
		Carriers: map[string]string{"G3": "Gol"},
	}
}

func newCache(t *testing.T, next domain.FlightSearcher) (*SearchCache, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := NewRedisClient(server.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewSearchCache(next, client, 10*time.Minute, zaptest.NewLogger(t)), server
}

func TestSearchCacheStoresAndServes(t *testing.T) {
	inner := &countingSearcher{result: sampleResult()}
	cache, server := newCache(t, inner)

	first, err := cache.SearchOffers(context.Background(), "gru", "sdu", "2026-11-02")
	require.NoError(t, err)
	second, err := cache.SearchOffers(context.Background(), "GRU", "SDU", "2026-11-02")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.True(t, server.Exists("offers:GRU:SDU:2026-11-02"))
	assert.Equal(t, 10*time.Minute, server.TTL("offers:GRU:SDU:2026-11-02"))

	require.Len(t, second.Offers, 1)
	assert.True(t, first.Offers[0].Price.Equal(*second.Offers[0].Price))
	assert.Equal(t, "Gol", second.Carriers["G3"])
}

func TestSearchCacheExpires(t *testing.T) {
	inner := &countingSearcher{result: sampleResult()}
	cache, server := newCache(t, inner)

	_, err := cache.SearchOffers(context.Background(), "GRU", "SDU", "2026-11-02")
	require.NoError(t, err)
	server.FastForward(11 * time.Minute)
	_, err = cache.SearchOffers(context.Background(), "GRU", "SDU", "2026-11-02")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestSearchCacheDoesNotStoreErrors(t *testing.T) {
	inner := &countingSearcher{err: &domain.ProviderError{Status: 500, Detail: "boom"}}
	cache, server := newCache(t, inner)

	_, err := cache.SearchOffers(context.Background(), "GRU", "SDU", "2026-11-02")
	assert.True(t, errors.Is(err, domain.ErrProviderFailure))
	assert.False(t, server.Exists("offers:GRU:SDU:2026-11-02"))
}

func TestSearchCacheFallsBackWhenRedisIsDown(t *testing.T) {
	inner := &countingSearcher{result: sampleResult()}
	cache, server := newCache(t, inner)
	server.Close()

	result, err := cache.SearchOffers(context.Background(), "GRU", "SDU", "2026-11-02")
	require.NoError(t, err)
	assert.Len(t, result.Offers, 1)
	assert.Equal(t, 1, inner.calls)
}

func TestSearchCacheDiscardsCorruptEntry(t *testing.T) {
	inner := &countingSearcher{result: sampleResult()}
	cache, server := newCache(t, inner)
	require.NoError(t, server.Set("offers:GRU:SDU:2026-11-02", "{not json"))

	result, err := cache.SearchOffers(context.Background(), "GRU", "SDU", "2026-11-02")
	require.NoError(t, err)
	assert.Len(t, result.Offers, 1)
	assert.Equal(t, 1, inner.calls)
}
