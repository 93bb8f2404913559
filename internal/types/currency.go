package types

import "strings"

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AUD": "AU$",
	"CAD": "CA$",
	"CHF": "CHF",
	"SEK": "kr",
	"NZD": "NZ$",
	"HKD": "HK$",
	"SGD": "S$",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"BRL": "R$",
	"MXN": "MX$",
	"KRW": "₩",
	"ZAR": "R",
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[NormalizeCurrencyCode(code)]; ok {
		return symbol
	}
	return code
}

// NormalizeCurrencyCode upper-cases a currency code for comparisons
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCurrencyCode reports whether the code looks like an ISO 4217 code
func IsValidCurrencyCode(code string) bool {
	return len(NormalizeCurrencyCode(code)) == 3
}
