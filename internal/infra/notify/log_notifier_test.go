package notify

import (
	"context"
	"testing"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier_Notify(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	notifier := NewLogNotifier(zap.New(core))

	err := notifier.Notify(context.Background(), domain.Notification{
		AlertID:       3,
		UserContactID: "5511999990000",
		Origin:        "GRU",
		Destination:   "GIG",
		TargetPrice:   "300.00",
		FoundPrice:    "280.50",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("price alert triggered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, uint64(3), fields["alert_id"])
	assert.Equal(t, "280.50", fields["found_price"])
	assert.Equal(t, "notifier", entries[0].LoggerName)
}
