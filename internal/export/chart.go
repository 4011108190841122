package export

import (
	"bytes"
	"fmt"
	"sort"

	"cryptonest/internal/valuation"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette cycles through slice colours, starting with the report's dark green
var palette = []drawing.Color{
	drawing.ColorFromHex("006400"),
	drawing.ColorFromHex("2563eb"),
	drawing.ColorFromHex("f59e0b"),
	drawing.ColorFromHex("7c3aed"),
	drawing.ColorFromHex("dc2626"),
	drawing.ColorFromHex("0891b2"),
	drawing.ColorFromHex("9ca3af"),
}

// RenderAllocationChart renders a PNG pie of current value per symbol.
// Symbols without value are left out.
func RenderAllocationChart(p *valuation.Portfolio) ([]byte, error) {
	bySymbol := make(map[string]float64)
	for _, it := range p.Items {
		if it.CurrentValue > 0 {
			bySymbol[it.Symbol] += it.CurrentValue
		}
	}
	if len(bySymbol) == 0 {
		return nil, fmt.Errorf("no valued holdings to chart")
	}

	symbols := make([]string, 0, len(bySymbol))
	for s := range bySymbol {
		symbols = append(symbols, s)
	}
	// Largest slice first
	sort.Slice(symbols, func(i, j int) bool {
		if bySymbol[symbols[i]] == bySymbol[symbols[j]] {
			return symbols[i] < symbols[j]
		}
		return bySymbol[symbols[i]] > bySymbol[symbols[j]]
	})

	values := make([]chart.Value, len(symbols))
	for i, s := range symbols {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s, bySymbol[s]/p.TotalValue*100),
			Value: bySymbol[s],
			Style: chart.Style{
				FillColor:   palette[i%len(palette)],
				StrokeColor: drawing.ColorWhite,
				FontColor:   drawing.ColorWhite,
			},
		}
	}

	pie := chart.PieChart{
		Width:  480,
		Height: 480,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render allocation chart: %w", err)
	}
	return buf.Bytes(), nil
}
