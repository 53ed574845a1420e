package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CryptoPrice is the exchange-rate read model. It is refreshed by the
// price oracle and never mutated by the transfer engine.
type CryptoPrice struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	PriceINR    decimal.Decimal `json:"price_inr"`
	Change24h   float64         `json:"change_24h"`
	Source      string          `json:"source"`
	LastUpdated time.Time       `json:"last_updated"`
}

// PriceIn returns the price of one unit in the given fiat currency.
// Only USD and INR are quoted directly; other fiats convert through USD.
func (p CryptoPrice) PriceIn(currency string) (decimal.Decimal, bool) {
	switch currency {
	case "USD":
		return p.PriceUSD, true
	case "INR":
		return p.PriceINR, true
	case "EUR":
		return p.PriceUSD.Mul(decimal.NewFromFloat(0.92)), true
	case "GBP":
		return p.PriceUSD.Mul(decimal.NewFromFloat(0.79)), true
	default:
		return decimal.Zero, false
	}
}
