package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const HelpText = `Commands:
/start - show this help
/help - show this help
/search <origin> <destination> <YYYY-MM-DD>
/alert <origin> <destination> <target_price>
/alerts - list your alerts
/delete <alert_id>

You can also just write, e.g. "flights from GRU to GIG tomorrow" or
"let me know when MAD to BCN is under 500".

Example:
/search GRU GIG 2026-11-02
/alert GRU GIG 350.90
`

var ErrInvalidArguments = errors.New("invalid arguments")

type SearchArgs struct {
	Origin      string
	Destination string
	Date        string
}

type AlertArgs struct {
	Origin      string
	Destination string
	TargetPrice string
}

func ParseSearchArgs(args string) (SearchArgs, error) {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return SearchArgs{}, ErrInvalidArguments
	}
	return SearchArgs{Origin: parts[0], Destination: parts[1], Date: parts[2]}, nil
}

// ParseAlertArgs accepts a decimal comma in the price, so "350,90" works.
func ParseAlertArgs(args string) (AlertArgs, error) {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return AlertArgs{}, ErrInvalidArguments
	}
	price := parts[2]
	if !strings.Contains(price, ".") {
		price = strings.Replace(price, ",", ".", 1)
	}
	return AlertArgs{Origin: parts[0], Destination: parts[1], TargetPrice: price}, nil
}

func ParseAlertID(args string) (uint, error) {
	idStr := strings.TrimSpace(args)
	if idStr == "" {
		return 0, ErrInvalidArguments
	}
	value, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || value == 0 {
		return 0, ErrInvalidArguments
	}
	return uint(value), nil
}

func ContactID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func ChatID(contactID string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(contactID), 10, 64)
}
