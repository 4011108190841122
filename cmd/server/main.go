package main

import (
	"context"                       // Context for Redis and shutdown
	"cryptonest/internal/api"       // HTTP handlers
	"cryptonest/internal/config"    // Configuration
	"cryptonest/internal/db"        // Database
	"cryptonest/internal/export"    // CSV and PDF documents
	"cryptonest/internal/holdings"  // Purchase lots
	"cryptonest/internal/identity"  // Accounts
	"cryptonest/internal/pricing"   // CoinGecko client
	"cryptonest/internal/session"   // Sessions
	"cryptonest/internal/utils"     // Logger and Redis client
	"cryptonest/internal/valuation" // Portfolio valuation
	"errors"                        // Error comparison
	"net/http"                      // HTTP server
	"os"                            // Signals
	"os/signal"                     // Signal notification
	"syscall"                       // SIGTERM
	"time"                          // Shutdown timeout

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if cfg.Secret == config.DefaultSecretKey {
		log.Warn("SECRET_KEY is not set, using the development key")
	}

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb, log); err != nil {
		log.Fatalf("%v", err)
	}

	// Sessions live in Redis when configured, in memory otherwise
	var store session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb, err := utils.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer func() { _ = rdb.Close() }()
		store = session.NewRedisStore(rdb)
		log.WithFields(logrus.Fields{"addr": cfg.Redis.Addr}).Info("Using Redis session store")
	} else {
		log.Info("REDIS_ADDR not set, sessions are kept in memory")
	}

	prices := pricing.NewClient(
		pricing.WithBaseURL(cfg.Prices.BaseURL),
		pricing.WithTimeout(cfg.Prices.GetTimeout()),
		pricing.WithLogger(log),
	)
	lots := holdings.New(gdb, log)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		Accounts: identity.New(gdb, log),
		Holdings: lots,
		Valuer:   valuation.NewEngine(lots, prices),
		Prices:   prices,
		Exporter: export.NewWriter(log),
		Sessions: session.NewManager(store, cfg.Secret, cfg.Session.GetTTL(), cfg.Session.CookieSecure, log),
		DB:       gdb,
		Log:      log,
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
