package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/NasaVasa/farewatch/internal/infra/metrics"
	"go.uber.org/zap"
)

// AlertScheduler runs the evaluator on a fixed interval for tomorrow's date
// and hands every notification to the notifier. Runs started from the ticker
// and from the HTTP API never overlap.
type AlertScheduler struct {
	runMu     sync.Mutex
	evaluator *AlertEvaluator
	notifier  domain.Notifier
	metrics   *metrics.Metrics
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewAlertScheduler(evaluator *AlertEvaluator, notifier domain.Notifier, m *metrics.Metrics, interval time.Duration, now func() time.Time, logger *zap.Logger) *AlertScheduler {
	if now == nil {
		now = time.Now
	}
	return &AlertScheduler{
		evaluator: evaluator,
		notifier:  notifier,
		metrics:   m,
		interval:  interval,
		now:       now,
		logger:    logger,
	}
}

// SearchDate is the calendar day after now, rolling over months and years.
func SearchDate(now time.Time) string {
	return now.AddDate(0, 0, 1).Format(domain.DateLayout)
}

func (s *AlertScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *AlertScheduler) RunOnce(ctx context.Context) EvaluationResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	defer func() {
		s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	searchDate := SearchDate(s.now())
	result, err := s.evaluator.EvaluateActive(ctx, searchDate)
	if err != nil {
		s.logger.Warn("evaluation run failed", zap.String("date", searchDate), zap.Error(err))
		return result
	}

	s.metrics.AlertsEvaluated.Add(float64(result.Evaluated))
	s.metrics.AlertsTriggered.Add(float64(len(result.Notifications)))
	s.metrics.AlertFailures.Add(float64(len(result.Failures)))

	for _, notification := range result.Notifications {
		if err := s.notifier.Notify(ctx, notification); err != nil {
			s.metrics.NotificationsFailed.Inc()
			s.logger.Warn(
				"failed to dispatch notification",
				zap.Uint("alert_id", notification.AlertID),
				zap.String("user_contact_id", notification.UserContactID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info(
		"evaluation run complete",
		zap.String("date", searchDate),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("triggered", len(result.Notifications)),
		zap.Int("failed", len(result.Failures)),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}
