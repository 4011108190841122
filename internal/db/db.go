package db

import (
	"fmt"     // Error wrapping
	"strings" // DSN handling
	"time"    // Slow query threshold

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM (pgx)
	"gorm.io/driver/sqlite"      // SQLite driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM log levels
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open connects to the relational store selected by driver.
// For sqlite the dsn is a file path (or a file: URI); foreign keys are switched on
// so deleting a user removes their lots.
func Open(driver, dsn string, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		dialector = sqlite.Open(sqliteDSN(dsn))
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true, // Unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if strings.ToLower(driver) == DriverSQLite || driver == "" {
		// SQLite allows one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.WithFields(logrus.Fields{"driver": driver}).Info("Database connected")
	return db, nil
}

// gormWriter sends gorm's log lines through logrus at a fixed level
type gormWriter struct {
	entry *logrus.Entry
	level logrus.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.entry.Logf(w.level, format, args...)
}

// newGormLogger logs every statement at debug level, otherwise only warnings, errors and slow queries
func newGormLogger(log *logrus.Logger) logger.Interface {
	w := gormWriter{entry: log.WithField("component", "gorm"), level: logrus.WarnLevel}
	level := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		w.level = logrus.DebugLevel
		level = logger.Info
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond, // Slow query warning
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true, // Lookups handle not-found themselves
	})
}

// sqliteDSN appends the pragmas the schema relies on
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
