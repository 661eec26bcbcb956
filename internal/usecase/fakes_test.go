package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type searchCall struct {
	Origin      string
	Destination string
	Date        string
}

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string]*domain.RawSearchResult
	errs    map[string]error
	calls   []searchCall
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{results: map[string]*domain.RawSearchResult{}, errs: map[string]error{}}
}

func (f *fakeSearcher) on(origin, destination string, result *domain.RawSearchResult) *fakeSearcher {
	f.results[origin+destination] = result
	return f
}

func (f *fakeSearcher) failOn(origin, destination string, err error) *fakeSearcher {
	f.errs[origin+destination] = err
	return f
}

func (f *fakeSearcher) SearchOffers(_ context.Context, origin, destination, date string) (*domain.RawSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{Origin: origin, Destination: destination, Date: date})
	if err, ok := f.errs[origin+destination]; ok {
		return nil, err
	}
	return f.results[origin+destination], nil
}

type fakeAlertRepo struct {
	mu            sync.Mutex
	nextID        uint
	alerts        []*domain.PriceAlert
	deactivateErr error
	deactivations int
	listErr       error
}

func newFakeAlertRepo(alerts ...*domain.PriceAlert) *fakeAlertRepo {
	repo := &fakeAlertRepo{}
	for _, alert := range alerts {
		_ = repo.Create(context.Background(), alert)
	}
	return repo
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *domain.PriceAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	alert.ID = r.nextID
	stored := *alert
	r.alerts = append(r.alerts, &stored)
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, alertID uint) (*domain.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == alertID {
			copied := *alert
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAlertRepo) ListActive(_ context.Context) ([]*domain.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var active []*domain.PriceAlert
	for _, alert := range r.alerts {
		if alert.IsActive {
			copied := *alert
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (r *fakeAlertRepo) ListByContact(_ context.Context, contactID string) ([]*domain.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PriceAlert
	for _, alert := range r.alerts {
		if alert.UserContactID == contactID {
			copied := *alert
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) Deactivate(_ context.Context, alertID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deactivations++
	if r.deactivateErr != nil {
		return false, r.deactivateErr
	}
	for _, stored := range r.alerts {
		if stored.ID == alertID {
			if !stored.IsActive {
				return false, nil
			}
			stored.IsActive = false
			return true, nil
		}
	}
	return false, domain.ErrNotFound
}

func (r *fakeAlertRepo) Delete(_ context.Context, contactID string, alertID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, alert := range r.alerts {
		if alert.ID == alertID && alert.UserContactID == contactID {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) stored(alertID uint) domain.PriceAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == alertID {
			return *alert
		}
	}
	return domain.PriceAlert{}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, notification domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return n.err
}

type fakeClassifier struct {
	intent        *domain.MessageIntent
	err           error
	referenceDate string
}

func (c *fakeClassifier) Classify(_ context.Context, _ string, referenceDate string) (*domain.MessageIntent, error) {
	c.referenceDate = referenceDate
	return c.intent, c.err
}

func price(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func strPtr(value string) *string {
	return &value
}

func segment(from, to, departAt, arriveAt, carrier string) domain.RawSegment {
	return domain.RawSegment{
		DepartureCode: from,
		DepartureAt:   departAt,
		ArrivalCode:   to,
		ArrivalAt:     arriveAt,
		CarrierCode:   carrier,
	}
}

func directOffer(id, from, to, carrier, amount string) domain.RawOffer {
	return domain.RawOffer{
		ID: id,
		Itineraries: []domain.RawItinerary{{
			Duration: "PT1H20M",
			Segments: []domain.RawSegment{segment(from, to, "2026-10-20T07:00:00", "2026-10-20T08:20:00", carrier)},
		}},
		Price: price(amount),
	}
}

func newTestAlert(t *testing.T, origin, destination, target string) *domain.PriceAlert {
	t.Helper()
	alert, err := domain.NewPriceAlert("user-1", origin, destination, target)
	require.NoError(t, err)
	return alert
}

// barrierSearcher holds every caller until parties calls have arrived, so
// concurrent evaluations all see the same price before any of them writes.
type barrierSearcher struct {
	arrived sync.WaitGroup
	result  *domain.RawSearchResult
}

func newBarrierSearcher(parties int, result *domain.RawSearchResult) *barrierSearcher {
	b := &barrierSearcher{result: result}
	b.arrived.Add(parties)
	return b
}

func (b *barrierSearcher) SearchOffers(context.Context, string, string, string) (*domain.RawSearchResult, error) {
	b.arrived.Done()
	b.arrived.Wait()
	return b.result, nil
}
