// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"io"
	"testing"

	"cryptonest/internal/db"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Logger returns a logger that discards everything
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// New returns a migrated in-memory SQLite database private to the test
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := db.Open(db.DriverSQLite, dsn, Logger())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, Logger()))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
