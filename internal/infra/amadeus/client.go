package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/NasaVasa/farewatch/internal/infra/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	Currency  string
	MaxOffers int
	Adults    int
}

// Client searches the Amadeus flight-offers endpoint. Access tokens are
// fetched with the client-credentials grant and reused until they expire.
type Client struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	currency  string
	maxOffers int
	adults    int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewClient(opts Options, m *metrics.Metrics, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	credentials := clientcredentials.Config{
		ClientID:     opts.APIKey,
		ClientSecret: opts.APISecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: opts.Timeout})
	httpClient := credentials.Client(tokenCtx)
	httpClient.Timeout = opts.Timeout

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		baseURL:   baseURL,
		client:    httpClient,
		limiter:   rate.NewLimiter(limit, 1),
		currency:  opts.Currency,
		maxOffers: opts.MaxOffers,
		adults:    opts.Adults,
		metrics:   m,
		logger:    logger,
	}
}

func (c *Client) SearchOffers(ctx context.Context, origin, destination, date string) (*domain.RawSearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("originLocationCode", origin)
	query.Set("destinationLocationCode", destination)
	query.Set("departureDate", date)
	query.Set("adults", strconv.Itoa(c.adults))
	query.Set("max", strconv.Itoa(c.maxOffers))
	if c.currency != "" {
		query.Set("currencyCode", c.currency)
	}
	endpoint := c.baseURL + offersPath + "?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	route := origin + "-" + destination
	start := time.Now()
	c.logger.Info("amadeus request start", zap.String("route", route), zap.String("date", date))
	response, err := c.client.Do(request)
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("transport_error").Inc()
		c.logger.Error("amadeus request failed", zap.String("route", route), zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}
	defer response.Body.Close()

	c.metrics.ProviderRequests.WithLabelValues(strconv.Itoa(response.StatusCode)).Inc()
	c.logger.Info(
		"amadeus request complete",
		zap.String("route", route),
		zap.String("date", date),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, decodeError(response)
	}

	var payload offersResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode offers: %w", domain.ErrProviderFailure, err)
	}
	return toDomain(payload), nil
}

func decodeError(response *http.Response) error {
	providerErr := &domain.ProviderError{Status: response.StatusCode, Detail: http.StatusText(response.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if err != nil {
		return providerErr
	}
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		return providerErr
	}

	first := payload.Errors[0]
	switch {
	case first.Detail != "":
		providerErr.Detail = first.Detail
	case first.Title != "":
		providerErr.Detail = first.Title
	}
	return providerErr
}

func toDomain(payload offersResponse) *domain.RawSearchResult {
	result := &domain.RawSearchResult{
		Offers:   make([]domain.RawOffer, 0, len(payload.Data)),
		Carriers: payload.Dictionaries.Carriers,
	}
	for _, item := range payload.Data {
		var price *decimal.Decimal
		if item.Price.Total.Valid {
			value := item.Price.Total.Decimal
			price = &value
		}

		itineraries := make([]domain.RawItinerary, 0, len(item.Itineraries))
		for _, it := range item.Itineraries {
			segments := make([]domain.RawSegment, 0, len(it.Segments))
			for _, seg := range it.Segments {
				segments = append(segments, domain.RawSegment{
					DepartureCode: seg.Departure.IATACode,
					DepartureAt:   seg.Departure.At,
					ArrivalCode:   seg.Arrival.IATACode,
					ArrivalAt:     seg.Arrival.At,
					CarrierCode:   seg.CarrierCode,
					Number:        seg.Number,
				})
			}
			itineraries = append(itineraries, domain.RawItinerary{Duration: it.Duration, Segments: segments})
		}

		result.Offers = append(result.Offers, domain.RawOffer{ID: item.ID, Itineraries: itineraries, Price: price})
	}
	return result
}
