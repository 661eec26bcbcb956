package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation failed")

// ValidationError is returned before any provider call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type SearchRequest struct {
	Origin      string
	Destination string
	Date        string
}

type SearchUsecase struct {
	searcher domain.FlightSearcher
	now      func() time.Time
	logger   *zap.Logger
}

func NewSearchUsecase(searcher domain.FlightSearcher, now func() time.Time, logger *zap.Logger) *SearchUsecase {
	if now == nil {
		now = time.Now
	}
	return &SearchUsecase{searcher: searcher, now: now, logger: logger}
}

func (u *SearchUsecase) Search(ctx context.Context, req SearchRequest) ([]domain.FlightOffer, error) {
	req, err := u.validate(req)
	if err != nil {
		return nil, err
	}

	raw, err := u.searcher.SearchOffers(ctx, req.Origin, req.Destination, req.Date)
	if err != nil {
		u.logger.Warn(
			"flight search failed",
			zap.String("origin", req.Origin),
			zap.String("destination", req.Destination),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrProviderFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}

	offers := NormalizeOffers(raw)
	u.logger.Info(
		"flight search complete",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.String("date", req.Date),
		zap.Int("offers", len(offers)),
	)
	return offers, nil
}

func (u *SearchUsecase) validate(req SearchRequest) (SearchRequest, error) {
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	req.Date = strings.TrimSpace(req.Date)

	switch {
	case req.Origin == "":
		return req, &ValidationError{Field: "origin", Reason: "required"}
	case req.Destination == "":
		return req, &ValidationError{Field: "destination", Reason: "required"}
	case req.Date == "":
		return req, &ValidationError{Field: "date", Reason: "required"}
	}

	now := u.now()
	date, err := time.ParseInLocation(domain.DateLayout, req.Date, now.Location())
	if err != nil {
		return req, &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return req, &ValidationError{Field: "date", Reason: "must not be in the past"}
	}

	return req, nil
}
