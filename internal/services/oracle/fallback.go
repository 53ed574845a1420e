package oracle

import (
	"time"

	"cryptopay/internal/models"

	"github.com/shopspring/decimal"
)

// FallbackPrices returns the static default snapshot used when every
// upstream source is unreachable and no cached snapshot exists.
func FallbackPrices() []models.CryptoPrice {
	now := time.Now()
	mk := func(symbol string, usd, inr string, change float64) models.CryptoPrice {
		return models.CryptoPrice{
			Symbol:      symbol,
			Name:        cryptoNames[symbol],
			PriceUSD:    decimal.RequireFromString(usd),
			PriceINR:    decimal.RequireFromString(inr),
			Change24h:   change,
			Source:      "fallback",
			LastUpdated: now,
		}
	}
	return []models.CryptoPrice{
		mk("BTC", "42000", "3500000", 2.5),
		mk("ETH", "3200", "280000", -1.2),
		mk("USDT", "1.0", "83.5", 0.1),
		mk("SOL", "170.0", "14195.0", 0),
		mk("DOGE", "0.16", "13.36", 0),
	}
}
