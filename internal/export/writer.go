package export

import (
	"io"

	"cryptonest/internal/valuation"

	"github.com/sirupsen/logrus"
)

// Writer bundles both export formats behind one value handlers can depend on
type Writer struct {
	log *logrus.Logger
}

// NewWriter creates an export writer
func NewWriter(log *logrus.Logger) *Writer {
	return &Writer{log: log}
}

// CSV writes the portfolio as CSV
func (x *Writer) CSV(w io.Writer, p *valuation.Portfolio) error {
	return WriteCSV(w, p)
}

// PDF writes the portfolio report as PDF
func (x *Writer) PDF(w io.Writer, r Report) error {
	return WritePDF(w, r, x.log)
}
