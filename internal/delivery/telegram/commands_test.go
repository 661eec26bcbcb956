package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchArgs(t *testing.T) {
	args, err := ParseSearchArgs("  gru GIG   2026-11-02 ")
	require.NoError(t, err)
	assert.Equal(t, SearchArgs{Origin: "gru", Destination: "GIG", Date: "2026-11-02"}, args)

	_, err = ParseSearchArgs("GRU GIG")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParseAlertArgs(t *testing.T) {
	args, err := ParseAlertArgs("GRU GIG 350,90")
	require.NoError(t, err)
	assert.Equal(t, "350.90", args.TargetPrice)

	args, err = ParseAlertArgs("GRU GIG 1.350")
	require.NoError(t, err)
	assert.Equal(t, "1.350", args.TargetPrice)

	_, err = ParseAlertArgs("GRU GIG 350 extra")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParseAlertID(t *testing.T) {
	id, err := ParseAlertID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, input := range []string{"", "abc", "-1", "0"} {
		_, err := ParseAlertID(input)
		assert.ErrorIs(t, err, ErrInvalidArguments, input)
	}
}

func TestContactIDRoundTrip(t *testing.T) {
	contact := ContactID(-1001234567890)
	assert.Equal(t, "-1001234567890", contact)

	chatID, err := ChatID(contact)
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), chatID)

	_, err = ChatID("5511999998888@whatsapp")
	assert.Error(t, err)
}
