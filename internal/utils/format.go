package utils

import (
	"fmt"     // Verb construction
	"strings" // Trimming

	"golang.org/x/text/language" // Locale for grouping
	"golang.org/x/text/message"  // Locale-aware number printing
)

var printer = message.NewPrinter(language.English)

// FormatMoney prints an amount with thousands separators behind a glyph, e.g. $1,234.50
func FormatMoney(glyph string, v float64, decimals int) string {
	return glyph + printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatPercent prints a signed percentage, e.g. +12.50%
func FormatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatQuantity prints up to 6 decimals without trailing zeros
func FormatQuantity(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
