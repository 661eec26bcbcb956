package usecase

import (
	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/shopspring/decimal"
)

// CheapestPrice returns false when there is nothing to choose from.
func CheapestPrice(prices []decimal.Decimal) (decimal.Decimal, bool) {
	if len(prices) == 0 {
		return decimal.Decimal{}, false
	}
	cheapest := prices[0]
	for _, price := range prices[1:] {
		if price.Cmp(cheapest) < 0 {
			cheapest = price
		}
	}
	return cheapest, true
}

func CheapestOffer(offers []domain.FlightOffer) (domain.FlightOffer, bool) {
	if len(offers) == 0 {
		return domain.FlightOffer{}, false
	}
	cheapest := offers[0]
	for _, offer := range offers[1:] {
		if offer.Price.Cmp(cheapest.Price) < 0 {
			cheapest = offer
		}
	}
	return cheapest, true
}

// CheapestRawPrice only needs the price field; unpriced offers are ignored.
func CheapestRawPrice(offers []domain.RawOffer) (decimal.Decimal, bool) {
	prices := make([]decimal.Decimal, 0, len(offers))
	for _, offer := range offers {
		if offer.Price == nil {
			continue
		}
		prices = append(prices, *offer.Price)
	}
	return CheapestPrice(prices)
}
