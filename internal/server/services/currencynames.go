package services

// currencyNames maps ISO 4217 and common crypto codes to display names.
// Codes missing here are shown as-is.
var currencyNames = map[string]string{
	"AED":  "United Arab Emirates Dirham",
	"AUD":  "Australian Dollar",
	"BGN":  "Bulgarian Lev",
	"BRL":  "Brazilian Real",
	"BTC":  "Bitcoin (cryptocurrency)",
	"CAD":  "Canadian Dollar",
	"CHF":  "Swiss Franc",
	"CNY":  "Chinese Yuan",
	"CZK":  "Czech Koruna",
	"DKK":  "Danish Krone",
	"ETH":  "Ethereum (cryptocurrency)",
	"EUR":  "Euro",
	"GBP":  "British Pound Sterling",
	"HKD":  "Hong Kong Dollar",
	"HUF":  "Hungarian Forint",
	"IDR":  "Indonesian Rupiah",
	"ILS":  "Israeli New Shekel",
	"INR":  "Indian Rupee",
	"JPY":  "Japanese Yen",
	"KRW":  "South Korean Won",
	"MXN":  "Mexican Peso",
	"MYR":  "Malaysian Ringgit",
	"NOK":  "Norwegian Krone",
	"NZD":  "New Zealand Dollar",
	"PHP":  "Philippine Peso",
	"PLN":  "Polish Zloty",
	"RON":  "Romanian Leu",
	"RUB":  "Russian Ruble",
	"SEK":  "Swedish Krona",
	"SGD":  "Singapore Dollar",
	"THB":  "Thai Baht",
	"TRY":  "Turkish Lira",
	"USD":  "United States Dollar",
	"USDC": "USD Coin (stablecoin)",
	"USDT": "Tether (stablecoin)",
	"XAG":  "Silver (one troy ounce)",
	"XAU":  "Gold (one troy ounce)",
	"ZAR":  "South African Rand",
}
