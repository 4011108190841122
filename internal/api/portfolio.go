package api

import (
	"cryptonest/internal/domain"     // Domain errors and currencies
	"cryptonest/internal/export"     // Allocation chart
	"cryptonest/internal/holdings"   // Lot input
	"cryptonest/internal/middleware" // Current user
	"cryptonest/internal/session"    // Flash categories
	"cryptonest/internal/valuation"  // Portfolio values
	"cryptonest/internal/web"        // Page names
	"errors"                         // Error comparison
	"fmt"                            // Message formatting
	"net/http"                       // HTTP status codes
	"strings"                        // Symbol list parsing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// DashboardHandler values the user's lots in the display currency and remembers that currency
func DashboardHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoadUser
		currency := displayCurrency(c, d.Sessions)
		d.Sessions.SetCurrency(c, currency) // Remember for exports and the next visit

		portfolio, err := d.Valuer.ComputePortfolio(c.Request.Context(), user.ID, currency)
		if err != nil {
			d.Log.WithFields(logrus.Fields{"user_id": user.ID, "currency": currency, "error": err}).Error("Failed to value portfolio")
			d.Sessions.AddFlash(c, session.Danger, "Could not load your portfolio. Please try again.")
			portfolio = &valuation.Portfolio{Currency: currency, Glyph: domain.Glyph(currency), Items: []valuation.Item{}}
		}
		if n := portfolio.Unpriced(); n > 0 {
			d.Sessions.AddFlash(c, session.Warning, fmt.Sprintf("Live prices unavailable for %d holding(s); they count as zero.", n))
		}
		render(c, d, http.StatusOK, web.Dashboard, "Dashboard", gin.H{"Portfolio": portfolio})
	}
}

// AddLotHandler records a purchase lot for the current user
func AddLotHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoadUser
		var form AddLotForm               // Bind form to struct
		if err := c.ShouldBind(&form); err != nil {
			flashRedirect(c, d, session.Danger, bindMessage(err), "/dashboard")
			return
		}
		lot, err := d.Holdings.AddLot(c.Request.Context(), user.ID, holdings.LotInput{
			Symbol:   form.Symbol,
			BuyPrice: form.BuyPrice,
			Quantity: form.Quantity,
			BuyDate:  form.BuyDate,
		})
		if err != nil {
			if verr, ok := domain.IsValidation(err); ok {
				flashRedirect(c, d, session.Danger, verr.Message, "/dashboard")
				return
			}
			d.Log.WithFields(logrus.Fields{"user_id": user.ID, "symbol": form.Symbol, "error": err}).Error("Failed to add lot")
			flashRedirect(c, d, session.Danger, "Could not add coin. Please try again.", "/dashboard")
			return
		}
		d.Log.WithFields(logrus.Fields{"user_id": user.ID, "lot_id": lot.ID, "symbol": lot.Symbol}).Info("Lot added")
		flashRedirect(c, d, session.Success, lot.Symbol+" added successfully!", "/dashboard")
	}
}

// DeleteLotHandler removes one of the current user's lots
func DeleteLotHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoadUser
		var uri LotURI                    // Bind path to struct
		if err := c.ShouldBindUri(&uri); err != nil {
			flashRedirect(c, d, session.Danger, "Coin not found or access denied.", "/dashboard")
			return
		}
		symbol, err := d.Holdings.DeleteLot(c.Request.Context(), user.ID, uri.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrLotNotFound) {
				d.Log.WithFields(logrus.Fields{"user_id": user.ID, "lot_id": uri.ID, "error": err}).Error("Failed to delete lot")
			}
			flashRedirect(c, d, session.Danger, "Coin not found or access denied.", "/dashboard")
			return
		}
		d.Log.WithFields(logrus.Fields{"user_id": user.ID, "lot_id": uri.ID, "symbol": symbol}).Info("Lot deleted")
		flashRedirect(c, d, session.Success, symbol+" removed from portfolio.", "/dashboard")
	}
}

// AllocationChartHandler serves the dashboard pie chart as PNG
func AllocationChartHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoadUser
		currency := displayCurrency(c, d.Sessions)
		portfolio, err := d.Valuer.ComputePortfolio(c.Request.Context(), user.ID, currency)
		if err != nil {
			d.Log.WithFields(logrus.Fields{"user_id": user.ID, "error": err}).Error("Failed to value portfolio")
			c.Status(http.StatusInternalServerError)
			return
		}
		png, err := export.RenderAllocationChart(portfolio)
		if err != nil {
			c.Status(http.StatusNotFound) // Nothing with a value to draw
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", png)
	}
}

// PricesHandler returns current USD prices for ?symbols=a,b as a JSON object
func PricesHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q PricesQuery // Bind query to struct
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err)})
			return
		}
		var symbols []string
		for _, s := range strings.Split(q.Symbols, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
		prices := map[string]float64{}
		if len(symbols) > 0 {
			prices = d.Prices.Prices(c.Request.Context(), symbols, domain.StorageCurrency)
		}
		c.JSON(http.StatusOK, prices)
	}
}
