package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cryptopay/internal/models"

	"github.com/shopspring/decimal"
)

// Source fetches a fresh price snapshot from one upstream feed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.CryptoPrice, error)
}

var usdToINR = decimal.NewFromFloat(83.5)

var cryptoNames = map[string]string{
	"BTC":  "Bitcoin",
	"ETH":  "Ethereum",
	"USDT": "Tether",
	"SOL":  "Solana",
	"DOGE": "Dogecoin",
}

// BinanceSource reads spot prices from the Binance public ticker API.
type BinanceSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBinanceSource builds the primary price source.
func NewBinanceSource(apiKey string, timeout time.Duration) *BinanceSource {
	return &BinanceSource{
		BaseURL: "https://api.binance.com",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (b *BinanceSource) Name() string { return "binance" }

func (b *BinanceSource) Fetch(ctx context.Context) ([]models.CryptoPrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"/api/v3/ticker/price", nil)
	if err != nil {
		return nil, err
	}
	if b.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", b.APIKey)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance API status %d", resp.StatusCode)
	}

	var tickers []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return nil, err
	}

	byPair := make(map[string]string, len(tickers))
	for _, t := range tickers {
		byPair[t.Symbol] = t.Price
	}

	now := time.Now()
	var prices []models.CryptoPrice
	for _, symbol := range models.CryptoSymbols() {
		pair := symbol + "USDT"
		if symbol == "USDT" {
			prices = append(prices, models.CryptoPrice{
				Symbol:      symbol,
				Name:        cryptoNames[symbol],
				PriceUSD:    decimal.NewFromInt(1),
				PriceINR:    usdToINR,
				Source:      b.Name(),
				LastUpdated: now,
			})
			continue
		}
		raw, ok := byPair[pair]
		if !ok {
			continue
		}
		usd, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		prices = append(prices, models.CryptoPrice{
			Symbol:      symbol,
			Name:        cryptoNames[symbol],
			PriceUSD:    usd,
			PriceINR:    usd.Mul(usdToINR),
			Source:      b.Name(),
			LastUpdated: now,
		})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("binance returned no usable tickers")
	}
	return prices, nil
}

// CoinGeckoSource is the secondary feed; it also carries 24h change.
type CoinGeckoSource struct {
	BaseURL string
	Client  *http.Client
}

// NewCoinGeckoSource builds the secondary price source.
func NewCoinGeckoSource(timeout time.Duration) *CoinGeckoSource {
	return &CoinGeckoSource{
		BaseURL: "https://api.coingecko.com",
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *CoinGeckoSource) Name() string { return "coingecko" }

var coingeckoIDs = map[string]string{
	"bitcoin":  "BTC",
	"ethereum": "ETH",
	"tether":   "USDT",
	"solana":   "SOL",
	"dogecoin": "DOGE",
}

func (c *CoinGeckoSource) Fetch(ctx context.Context) ([]models.CryptoPrice, error) {
	url := c.BaseURL + "/api/v3/simple/price?ids=bitcoin,ethereum,tether,solana,dogecoin&vs_currencies=usd,inr&include_24hr_change=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CryptoPay/1.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("coingecko rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko API status %d", resp.StatusCode)
	}

	var data map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	now := time.Now()
	var prices []models.CryptoPrice
	for id, symbol := range coingeckoIDs {
		quote, ok := data[id]
		if !ok {
			continue
		}
		prices = append(prices, models.CryptoPrice{
			Symbol:      symbol,
			Name:        cryptoNames[symbol],
			PriceUSD:    floatToDecimal(quote["usd"]),
			PriceINR:    floatToDecimal(quote["inr"]),
			Change24h:   quote["usd_24h_change"],
			Source:      c.Name(),
			LastUpdated: now,
		})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("coingecko returned no usable quotes")
	}
	return prices, nil
}

func floatToDecimal(f float64) decimal.Decimal {
	// Round-trip through the string form to avoid binary float noise
	// in stored amounts.
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return decimal.NewFromFloat(f)
	}
	return d
}
