package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{TransactionStatusPending, TransactionStatusCompleted, true},
		{TransactionStatusPending, TransactionStatusFailed, true},
		{TransactionStatusPending, TransactionStatusPending, true},
		{TransactionStatusCompleted, TransactionStatusCompleted, true},
		{TransactionStatusCompleted, TransactionStatusFailed, false},
		{TransactionStatusCompleted, TransactionStatusPending, false},
		{TransactionStatusFailed, TransactionStatusCompleted, false},
		{TransactionStatusFailed, TransactionStatusPending, false},
	}
	for _, tt := range tests {
		tx := &Transaction{Status: tt.from}
		assert.Equal(t, tt.want, tx.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCurrencyClassification(t *testing.T) {
	assert.True(t, IsFiatCurrency("INR"))
	assert.True(t, IsFiatCurrency("USD"))
	assert.False(t, IsFiatCurrency("BTC"))
	assert.False(t, IsFiatCurrency("inr"), "codes are case sensitive")

	assert.True(t, IsCryptoCurrency("BTC"))
	assert.True(t, IsCryptoCurrency("DOGE"))
	assert.False(t, IsCryptoCurrency("INR"))

	assert.Len(t, CryptoSymbols(), 5)
}

func TestCryptoPrice_PriceIn(t *testing.T) {
	price := CryptoPrice{
		Symbol:   "BTC",
		PriceUSD: decimal.NewFromInt(42000),
		PriceINR: decimal.NewFromInt(3500000),
	}

	usd, ok := price.PriceIn("USD")
	assert.True(t, ok)
	assert.True(t, usd.Equal(decimal.NewFromInt(42000)))

	inr, ok := price.PriceIn("INR")
	assert.True(t, ok)
	assert.True(t, inr.Equal(decimal.NewFromInt(3500000)))

	eur, ok := price.PriceIn("EUR")
	assert.True(t, ok)
	assert.True(t, eur.Equal(decimal.NewFromFloat(0.92).Mul(decimal.NewFromInt(42000))))

	_, ok = price.PriceIn("JPY")
	assert.False(t, ok)
}
