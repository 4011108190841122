package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"cryptonest/internal/domain"
	"cryptonest/internal/utils"
	"cryptonest/internal/valuation"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
)

// Report is everything that goes into a PDF export
type Report struct {
	User        *domain.User
	Portfolio   *valuation.Portfolio
	GeneratedAt time.Time
}

// The core PDF fonts are cp1252 and have no rupee sign
var pdfGlyphs = map[string]string{
	"INR": "Rs ",
}

type column struct {
	title string
	width float64
	align string
}

// WritePDF renders an A4 report: title, account summary, allocation chart and holdings table.
// Generation errors, including panics inside the PDF library, come back wrapped in domain.ErrExport.
func WritePDF(w io.Writer, r Report, log *logrus.Logger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", domain.ErrExport, rec)
		}
	}()

	if r.User == nil || r.Portfolio == nil {
		return fmt.Errorf("%w: incomplete report", domain.ErrExport)
	}
	p := r.Portfolio
	glyph := p.Glyph
	if g, ok := pdfGlyphs[p.Currency]; ok {
		glyph = g
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252
	pdf.SetTitle("CryptoNest Portfolio Report", true)
	pdf.SetAuthor(r.User.Name, true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 100, 0)
	pdf.CellFormat(0, 12, "CryptoNest Portfolio Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Summary block
	summary := [][2]string{
		{"User:", r.User.Name},
		{"Email:", r.User.Email},
		{"Currency:", fmt.Sprintf("%s (%s)", p.Currency, strings.TrimSpace(glyph))},
		{"Total Value:", utils.FormatMoney(glyph, p.TotalValue, 2)},
		{"24h P&L:", fmt.Sprintf("%+.2f%%", p.TotalChangePct)},
		{"Generated:", r.GeneratedAt.Format("2006-01-02 15:04 MST")},
	}
	pdf.SetTextColor(0, 0, 0)
	for _, kv := range summary {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(30, 7, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	if n := p.Unpriced(); n > 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(160, 82, 45)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d holding(s) had no current price and are valued at 0.", n), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(6)

	if len(p.Items) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, "No coins in portfolio yet.", "", 1, "L", false, 0, "")
		return output(pdf, w)
	}

	if p.TotalValue > 0 {
		addAllocationChart(pdf, p, log)
	}

	cols := []column{
		{"Coin", 34, "L"},
		{"Symbol", 20, "L"},
		{"Qty", 28, "R"},
		{"Buy " + glyph, 28, "R"},
		{"Current " + glyph, 28, "R"},
		{"Value " + glyph, 30, "R"},
		{"P&L", 22, "R"},
	}
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(0, 100, 0)
		pdf.SetTextColor(245, 245, 245)
		pdf.SetDrawColor(0, 0, 0)
		for _, c := range cols {
			pdf.CellFormat(c.width, 8, tr(c.title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	const rowH = 7.0
	for i, it := range p.Items {
		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
			drawHeader()
		}
		pdf.SetFont("Helvetica", "", 9)
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(211, 211, 211)
		}

		current := utils.FormatMoney(glyph, it.CurrentPrice, 4)
		if !it.Priced {
			current = "n/a"
		}
		cells := []string{
			it.Name,
			it.Symbol,
			fmt.Sprintf("%.6f", it.Quantity),
			utils.FormatMoney(glyph, it.BuyPrice, 4),
			current,
			utils.FormatMoney(glyph, it.CurrentValue, 2),
		}
		pdf.SetTextColor(0, 0, 0)
		for j, text := range cells {
			pdf.CellFormat(cols[j].width, rowH, tr(text), "1", 0, cols[j].align, true, 0, "")
		}

		if it.ChangePct >= 0 {
			pdf.SetTextColor(0, 128, 0)
		} else {
			pdf.SetTextColor(200, 0, 0)
		}
		last := cols[len(cols)-1]
		pdf.CellFormat(last.width, rowH, fmt.Sprintf("%.2f%%", it.ChangePct), "1", 1, last.align, true, 0, "")
	}

	return output(pdf, w)
}

// addAllocationChart embeds the pie chart; a chart that cannot be drawn is skipped
func addAllocationChart(pdf *fpdf.Fpdf, p *valuation.Portfolio, log *logrus.Logger) {
	png, err := RenderAllocationChart(p)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err}).Warn("Allocation chart skipped")
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("allocation", opts, bytes.NewReader(png))
	if pdf.Err() {
		log.WithFields(logrus.Fields{"error": pdf.Error()}).Warn("Allocation chart skipped")
		pdf.ClearError()
		return
	}

	const size = 70.0
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Allocation", "", 1, "C", false, 0, "")
	pdf.ImageOptions("allocation", (pageW-size)/2, y+6, size, size, false, opts, 0, "")
	pdf.SetY(y + 6 + size + 4)
}

func output(pdf *fpdf.Fpdf, w io.Writer) error {
	if pdf.Err() {
		return fmt.Errorf("%w: %v", domain.ErrExport, pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExport, err)
	}
	return nil
}
