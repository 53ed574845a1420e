package handlers

import (
	"cryptopay/internal/middleware"
	"cryptopay/internal/models"
	"cryptopay/internal/repositories"
	"cryptopay/internal/services/oracle"
	"cryptopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// WalletHandler serves balances and prices. Crypto holdings are a
// notional view derived from the default-currency balance at the
// current price; the custodial ledger holds fiat only.
type WalletHandler struct {
	ledger          repositories.LedgerStore
	prices          oracle.Service
	defaultCurrency string
}

func NewWalletHandler(ledger repositories.LedgerStore, prices oracle.Service, defaultCurrency string) *WalletHandler {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &WalletHandler{ledger: ledger, prices: prices, defaultCurrency: defaultCurrency}
}

type cryptoHolding struct {
	Symbol     string          `json:"symbol"`
	Amount     decimal.Decimal `json:"amount"`
	FiatValue  decimal.Decimal `json:"fiat_value"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   string          `json:"currency"`
	PriceStale bool            `json:"price_stale,omitempty"`
}

func (h *WalletHandler) GetBalances(c *fiber.Ctx) error {
	accountID := middleware.AccountIDFromContext(c)
	if accountID == "" {
		return response.Unauthorized(c)
	}

	balances, err := h.ledger.GetBalances(c.Context(), accountID)
	if err != nil {
		return response.ServerError(c, "failed to load balances")
	}

	base := balances[h.defaultCurrency]
	holdings := make([]cryptoHolding, 0, len(models.CryptoSymbols()))
	priceList, perr := h.prices.GetPrices(c.Context())
	if perr == nil {
		for _, price := range priceList {
			rate, ok := price.PriceIn(h.defaultCurrency)
			if !ok || rate.Sign() <= 0 {
				continue
			}
			holdings = append(holdings, cryptoHolding{
				Symbol:    price.Symbol,
				Amount:    base.Div(rate).Round(8),
				FiatValue: base,
				UnitPrice: rate,
				Currency:  h.defaultCurrency,
			})
		}
	}

	return response.Success(c, "balances", fiber.Map{
		"fiat":     balances,
		"holdings": holdings,
		"currency": h.defaultCurrency,
	})
}

func (h *WalletHandler) GetPrices(c *fiber.Ctx) error {
	prices, err := h.prices.GetPrices(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "prices unavailable")
	}
	return response.Success(c, "prices", fiber.Map{"prices": prices})
}

func (h *WalletHandler) GetPrice(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	if !models.IsCryptoCurrency(symbol) {
		return response.BadRequest(c, "unknown crypto asset")
	}
	price, err := h.prices.GetPrice(c.Context(), symbol)
	if err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "price unavailable")
	}
	return response.Success(c, "price", fiber.Map{"price": price})
}
