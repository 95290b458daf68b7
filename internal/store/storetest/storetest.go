// Package storetest opens throwaway SQLite databases for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gpx_tracker/internal/config"
)

// NewDB returns a fresh on-disk SQLite database with foreign keys enforced.
// It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "catalog.db"),
	}
	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { config.CloseDatabase(db) })
	return db
}

// Count runs a SELECT count(*) query and returns the result.
func Count(t testing.TB, db *gorm.DB, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Raw(query, args...).Scan(&n).Error)
	return n
}

// OrphanRows counts routes without a document plus waypoints without a route.
func OrphanRows(t testing.TB, db *gorm.DB) int64 {
	t.Helper()
	return Count(t, db, "SELECT count(*) FROM routes WHERE document_id NOT IN (SELECT id FROM documents)") +
		Count(t, db, "SELECT count(*) FROM waypoints WHERE route_id NOT IN (SELECT id FROM routes)")
}
