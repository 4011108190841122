package domain

import "strings"

// Rates maps a display currency to its USD multiplier.
// The table is static and only used for display conversion.
var Rates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"INR": 84.5,
	"JPY": 150.2,
	"CAD": 1.38,
	"AUD": 1.52,
}

var glyphs = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
}

// currencyOrder is the order currencies are offered in the selector
var currencyOrder = []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}

// Currencies returns the supported display currencies
func Currencies() []string {
	out := make([]string, len(currencyOrder))
	copy(out, currencyOrder)
	return out
}

// NormalizeCurrency upper-cases a currency code and falls back to USD when unsupported
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := Rates[code]; !ok {
		return StorageCurrency
	}
	return code
}

// Rate returns the USD multiplier for a currency, 1.0 when unknown
func Rate(code string) float64 {
	if r, ok := Rates[code]; ok {
		return r
	}
	return 1.0
}

// Glyph returns the currency symbol, "$" when unknown
func Glyph(code string) string {
	if g, ok := glyphs[code]; ok {
		return g
	}
	return "$"
}
