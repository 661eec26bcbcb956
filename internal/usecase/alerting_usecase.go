package usecase

import (
	"context"
	"fmt"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AlertFailure records an alert that could not be evaluated in this run. The
// alert stays active and is picked up again by the next run.
type AlertFailure struct {
	AlertID uint
	Err     error
}

type EvaluationResult struct {
	Evaluated     int
	Notifications []domain.Notification
	Failures      []AlertFailure
}

type AlertEvaluator struct {
	alerts   domain.AlertRepository
	searcher domain.FlightSearcher
	logger   *zap.Logger
}

func NewAlertEvaluator(alerts domain.AlertRepository, searcher domain.FlightSearcher, logger *zap.Logger) *AlertEvaluator {
	return &AlertEvaluator{alerts: alerts, searcher: searcher, logger: logger}
}

func (e *AlertEvaluator) EvaluateActive(ctx context.Context, searchDate string) (EvaluationResult, error) {
	alerts, err := e.alerts.ListActive(ctx)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("list active alerts: %w", err)
	}
	return e.Evaluate(ctx, alerts, searchDate), nil
}

// Evaluate checks each alert against one provider search for its route on
// searchDate. Triggered alerts are deactivated in the store before the next
// alert is looked at, and only the run that wins the deactivation gets the
// notification. A failure on one alert never stops the others.
func (e *AlertEvaluator) Evaluate(ctx context.Context, alerts []*domain.PriceAlert, searchDate string) EvaluationResult {
	result := EvaluationResult{Notifications: []domain.Notification{}}

	for _, alert := range alerts {
		if !alert.IsActive {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, AlertFailure{AlertID: alert.ID, Err: err})
			continue
		}
		result.Evaluated++

		notification, triggered, err := e.evaluateOne(ctx, alert, searchDate)
		if err != nil {
			e.logger.Warn(
				"alert evaluation failed",
				zap.Uint("alert_id", alert.ID),
				zap.String("origin", alert.OriginCode),
				zap.String("destination", alert.DestinationCode),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, AlertFailure{AlertID: alert.ID, Err: err})
			continue
		}
		if triggered {
			result.Notifications = append(result.Notifications, notification)
		}
	}

	return result
}

func (e *AlertEvaluator) evaluateOne(ctx context.Context, alert *domain.PriceAlert, searchDate string) (domain.Notification, bool, error) {
	offers, err := e.searcher.SearchOffers(ctx, alert.OriginCode, alert.DestinationCode, searchDate)
	if err != nil {
		return domain.Notification{}, false, fmt.Errorf("search offers: %w", err)
	}
	if offers == nil || len(offers.Offers) == 0 {
		e.logger.Debug("no offers for alert", zap.Uint("alert_id", alert.ID), zap.String("date", searchDate))
		return domain.Notification{}, false, nil
	}

	cheapest, ok := CheapestRawPrice(offers.Offers)
	if !ok {
		e.logger.Debug("no priced offers for alert", zap.Uint("alert_id", alert.ID), zap.Int("offers", len(offers.Offers)))
		return domain.Notification{}, false, nil
	}

	if !shouldNotify(cheapest, alert.TargetPrice) {
		e.logger.Debug(
			"alert not triggered",
			zap.Uint("alert_id", alert.ID),
			zap.String("cheapest", cheapest.String()),
			zap.String("target", alert.TargetPrice.String()),
		)
		return domain.Notification{}, false, nil
	}

	notification := domain.Notification{
		AlertID:       alert.ID,
		UserContactID: alert.UserContactID,
		Origin:        alert.OriginCode,
		Destination:   alert.DestinationCode,
		TargetPrice:   domain.FormatAmount(alert.TargetPrice),
		FoundPrice:    domain.FormatAmount(cheapest),
	}

	deactivated, err := e.alerts.Deactivate(ctx, alert.ID)
	if err != nil {
		return domain.Notification{}, false, fmt.Errorf("deactivate alert: %w", err)
	}
	alert.Deactivate()
	if !deactivated {
		e.logger.Info("alert already triggered by another run", zap.Uint("alert_id", alert.ID))
		return domain.Notification{}, false, nil
	}

	e.logger.Info(
		"alert triggered",
		zap.Uint("alert_id", alert.ID),
		zap.String("origin", alert.OriginCode),
		zap.String("destination", alert.DestinationCode),
		zap.String("target", notification.TargetPrice),
		zap.String("found", notification.FoundPrice),
	)
	return notification, true, nil
}

func shouldNotify(price decimal.Decimal, target decimal.Decimal) bool {
	return price.Cmp(target) <= 0
}
