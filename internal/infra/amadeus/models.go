package amadeus

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type offersResponse struct {
	Data         []offer      `json:"data"`
	Dictionaries dictionaries `json:"dictionaries"`
}

type dictionaries struct {
	Carriers map[string]string `json:"carriers"`
}

type offer struct {
	ID          string      `json:"id"`
	Itineraries []itinerary `json:"itineraries"`
	Price       offerPrice  `json:"price"`
}

type itinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Departure   endpoint `json:"departure"`
	Arrival     endpoint `json:"arrival"`
	CarrierCode string   `json:"carrierCode"`
	Number      string   `json:"number"`
}

type endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type offerPrice struct {
	Currency string          `json:"currency"`
	Total    NullableDecimal `json:"total"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NullableDecimal accepts a JSON number, a quoted number or null. Anything
// that does not parse leaves Valid false so a single bad offer price does not
// fail the whole response.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	n.Valid = false
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) == 0 {
		return nil
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (n NullableDecimal) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Decimal.String())
}
