package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cryptonest/internal/valuation"
)

// csvColumnWidths sets the length of each dash run in the separator row
var csvColumnWidths = []int{20, 10, 12, 12, 14, 15, 12}

// WriteCSV writes a header row, a dashed separator row and one row per lot
func WriteCSV(w io.Writer, p *valuation.Portfolio) error {
	g := p.Glyph
	cw := csv.NewWriter(w)

	header := []string{
		"Coin",
		"Symbol",
		"Quantity",
		fmt.Sprintf("Buy Price (%s)", g),
		fmt.Sprintf("Current Price (%s)", g),
		fmt.Sprintf("Value (%s)", g),
		"24h P&L %",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	sep := make([]string, len(csvColumnWidths))
	for i, n := range csvColumnWidths {
		sep[i] = strings.Repeat("-", n)
	}
	if err := cw.Write(sep); err != nil {
		return err
	}

	for _, it := range p.Items {
		row := []string{
			it.Name,
			it.Symbol,
			fmt.Sprintf("%.6f", it.Quantity),
			fmt.Sprintf("%s%.4f", g, it.BuyPrice),
			fmt.Sprintf("%s%.4f", g, it.CurrentPrice),
			fmt.Sprintf("%s%.2f", g, it.CurrentValue),
			fmt.Sprintf("%.2f%%", it.ChangePct),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
