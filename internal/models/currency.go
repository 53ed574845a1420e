package models

// Supported fiat currencies
var fiatCurrencies = map[string]bool{
	"INR": true,
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// Supported crypto symbols
var cryptoCurrencies = map[string]bool{
	"BTC":  true,
	"ETH":  true,
	"USDT": true,
	"SOL":  true,
	"DOGE": true,
}

// IsFiatCurrency reports whether code is a supported fiat currency.
func IsFiatCurrency(code string) bool {
	return fiatCurrencies[code]
}

// IsCryptoCurrency reports whether symbol is a supported crypto asset.
func IsCryptoCurrency(symbol string) bool {
	return cryptoCurrencies[symbol]
}

// CryptoSymbols returns the supported crypto symbols.
func CryptoSymbols() []string {
	return []string{"BTC", "ETH", "USDT", "SOL", "DOGE"}
}
