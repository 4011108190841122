package api

import (
	"cryptonest/internal/domain"     // Currency table
	"cryptonest/internal/middleware" // Current user
	"cryptonest/internal/session"    // Flashes
	"cryptonest/internal/web"        // Page names
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// render fills the values every page layout reads, then renders page.
// Flashes are popped before the body is written so the cookie update still reaches the client.
func render(c *gin.Context, d Deps, status int, page, title string, data gin.H) {
	currency := displayCurrency(c, d.Sessions)
	view := gin.H{
		"Title":      title,
		"Flashes":    d.Sessions.PopFlashes(c),
		"User":       middleware.CurrentUser(c),
		"Currency":   currency,
		"Glyph":      domain.Glyph(currency),
		"Currencies": domain.Currencies(),
		"Form":       nil,
		"Next":       "",
		"Today":      d.Now().Format(domain.DateLayout),
	}
	for k, v := range data {
		view[k] = v
	}
	c.HTML(status, page, view)
}

// displayCurrency picks ?currency=, then the session's remembered currency, then USD
func displayCurrency(c *gin.Context, mgr *session.Manager) string {
	if q := c.Query("currency"); q != "" {
		return domain.NormalizeCurrency(q)
	}
	return domain.NormalizeCurrency(mgr.Currency(c))
}

// flashRedirect queues a flash and redirects with 302
func flashRedirect(c *gin.Context, d Deps, category, message, location string) {
	d.Sessions.AddFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// IndexHandler renders the landing page; a ?currency= choice is remembered
func IndexHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("currency") != "" {
			d.Sessions.SetCurrency(c, displayCurrency(c, d.Sessions))
		}
		render(c, d, http.StatusOK, web.Index, "Track your crypto", nil)
	}
}

// ForgotPasswordPageHandler renders the password reset form
func ForgotPasswordPageHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, d, http.StatusOK, web.ForgotPassword, "Forgot password", nil)
	}
}

// ForgotPasswordHandler pretends to send a reset link; no mail is sent
func ForgotPasswordHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		flashRedirect(c, d, session.Success, "Password reset link sent! Check your email. (Demo mode)", "/login")
	}
}

// NotFoundHandler renders the 404 page
func NotFoundHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, d, http.StatusNotFound, web.NotFound, "Page not found", nil)
	}
}
