package api

import (
	"bytes"                          // Buffered PDF output
	"cryptonest/internal/export"     // Export documents and filenames
	"cryptonest/internal/middleware" // Current user
	"cryptonest/internal/session"    // Flash categories
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// ExportCSVHandler downloads the portfolio as CSV in the display currency
func ExportCSVHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoadUser
		currency := displayCurrency(c, d.Sessions)
		portfolio, err := d.Valuer.ComputePortfolio(c.Request.Context(), user.ID, currency)
		if err != nil {
			d.Log.WithFields(logrus.Fields{"user_id": user.ID, "error": err}).Error("CSV export failed")
			flashRedirect(c, d, session.Danger, "Export failed. Please try again.", "/dashboard")
			return
		}
		var buf bytes.Buffer
		if err := d.Exporter.CSV(&buf, portfolio); err != nil {
			d.Log.WithFields(logrus.Fields{"user_id": user.ID, "error": err}).Error("CSV export failed")
			flashRedirect(c, d, session.Danger, "Export failed. Please try again.", "/dashboard")
			return
		}
		name := export.Filename(portfolio.Currency, user.Email, d.Now(), "csv")
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

// ExportPDFHandler downloads the portfolio report as PDF.
// A failed render falls back to a flash pointing at the CSV export.
func ExportPDFHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoadUser
		currency := displayCurrency(c, d.Sessions)
		portfolio, err := d.Valuer.ComputePortfolio(c.Request.Context(), user.ID, currency)
		if err == nil {
			var buf bytes.Buffer
			if err = d.Exporter.PDF(&buf, export.Report{User: user, Portfolio: portfolio, GeneratedAt: d.Now()}); err == nil {
				name := export.Filename(portfolio.Currency, user.Email, d.Now(), "pdf")
				c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
				c.Data(http.StatusOK, "application/pdf", buf.Bytes())
				return
			}
		}
		d.Log.WithFields(logrus.Fields{"user_id": user.ID, "currency": currency, "error": err}).Error("PDF export failed")
		flashRedirect(c, d, session.Danger, "PDF failed. CSV works perfectly!", "/dashboard")
	}
}
