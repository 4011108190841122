package db

import (
	"cryptonest/internal/domain" // Importing domain models
	"fmt"                        // Error wrapping

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB, log *logrus.Logger) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Lot{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("Migration completed.") // Log successful migration
	return nil
}
