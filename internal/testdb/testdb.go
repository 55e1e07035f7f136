// Package testdb opens throwaway in-memory databases for tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trentd187/pickleball-directory/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh in-memory SQLite database with the courts table migrated.
// It is closed automatically when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is its own database, so pin the pool to one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Court{}))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
