package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		glyph    string
		v        float64
		decimals int
		want     string
	}{
		{name: "Grouping", glyph: "$", v: 1234.5, decimals: 2, want: "$1,234.50"},
		{name: "Millions", glyph: "€", v: 1234567.891, decimals: 2, want: "€1,234,567.89"},
		{name: "FourDecimals", glyph: "£", v: 0.12345, decimals: 4, want: "£0.1235"},
		{name: "Zero", glyph: "C$", v: 0, decimals: 2, want: "C$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.glyph, tt.v, tt.decimals))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+50.00%", FormatPercent(50))
	assert.Equal(t, "-3.33%", FormatPercent(-3.333))
	assert.Equal(t, "+0.00%", FormatPercent(0))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", FormatQuantity(2))
	assert.Equal(t, "0.5", FormatQuantity(0.5))
	assert.Equal(t, "0.000001", FormatQuantity(0.000001))
}
