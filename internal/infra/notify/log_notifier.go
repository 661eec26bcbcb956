package notify

import (
	"context"

	"github.com/NasaVasa/farewatch/internal/domain"
	"go.uber.org/zap"
)

// LogNotifier records notifications in the service log. It is used when no
// chat transport is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, notification domain.Notification) error {
	n.logger.Info(
		"price alert triggered",
		zap.Uint("alert_id", notification.AlertID),
		zap.String("user_contact_id", notification.UserContactID),
		zap.String("origin", notification.Origin),
		zap.String("destination", notification.Destination),
		zap.String("target_price", notification.TargetPrice),
		zap.String("found_price", notification.FoundPrice),
	)
	return nil
}
