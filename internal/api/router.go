// Package api wires the HTTP routes to the services.
package api

import (
	"context"                        // Context for service calls
	"cryptonest/internal/domain"     // Domain models
	"cryptonest/internal/export"     // Export documents
	"cryptonest/internal/holdings"   // Lot input
	"cryptonest/internal/middleware" // Request middleware
	"cryptonest/internal/pricing"    // Price gateway
	"cryptonest/internal/session"    // Sessions and flashes
	"cryptonest/internal/valuation"  // Portfolio valuation
	"cryptonest/internal/web"        // HTML templates
	"fmt"                            // Error wrapping
	"io"                             // Export writers
	"net/http"                       // HTTP status codes
	"time"                           // Clock

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // Health check
)

// Accounts creates and authenticates users
type Accounts interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// Holdings mutates a user's lots
type Holdings interface {
	AddLot(ctx context.Context, userID uint, in holdings.LotInput) (*domain.Lot, error)
	DeleteLot(ctx context.Context, userID, lotID uint) (string, error)
}

// Valuer values a user's portfolio in a display currency
type Valuer interface {
	ComputePortfolio(ctx context.Context, userID uint, currency string) (*valuation.Portfolio, error)
}

// Exporter renders portfolio documents
type Exporter interface {
	CSV(w io.Writer, p *valuation.Portfolio) error
	PDF(w io.Writer, r export.Report) error
}

// Deps are the collaborators the handlers need
type Deps struct {
	Accounts Accounts
	Holdings Holdings
	Valuer   Valuer
	Prices   pricing.Source
	Exporter Exporter
	Sessions *session.Manager
	DB       *gorm.DB // Pinged by /healthz, optional
	Log      *logrus.Logger
	Now      func() time.Time // Defaults to time.Now
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	InitValidator()

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log, d.Sessions),
		middleware.Sessions(d.Sessions),
		middleware.LoadUser(d.Sessions, d.Accounts, d.Log),
	)

	// Public pages
	r.GET("/", IndexHandler(d))
	r.GET("/signup", SignupPageHandler(d))
	r.POST("/signup", SignupHandler(d))
	r.GET("/login", LoginPageHandler(d))
	r.POST("/login", LoginHandler(d))
	r.GET("/forgot-password", ForgotPasswordPageHandler(d))
	r.POST("/forgot-password", ForgotPasswordHandler(d))
	r.GET("/healthz", HealthHandler(d.DB))

	// Pages behind login
	auth := r.Group("/", middleware.RequireLogin(d.Sessions))
	auth.GET("/logout", LogoutHandler(d))
	auth.GET("/dashboard", DashboardHandler(d))
	auth.POST("/add_coin", AddLotHandler(d))
	auth.POST("/delete_coin/:id", DeleteLotHandler(d))
	auth.GET("/export_csv", ExportCSVHandler(d))
	auth.GET("/export_pdf", ExportPDFHandler(d))
	auth.GET("/chart/allocation.png", AllocationChartHandler(d))
	auth.GET("/api/prices", PricesHandler(d))

	r.NoRoute(NotFoundHandler(d))
	return r, nil
}

// HealthHandler reports whether the database answers
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
