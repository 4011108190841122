package main

import (
	"cryptonest/internal/config" // Configuration
	"cryptonest/internal/db"     // Database
	"cryptonest/internal/utils"  // Logger

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := utils.NewLogger(cfg.Env, cfg.LogLevel)

	gdb, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb, log); err != nil {
		log.Fatalf("%v", err)
	}
}
