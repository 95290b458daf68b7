package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "gpx")
	t.Setenv("INGEST_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.IngestTimeout)
	assert.Contains(t, cfg.PostgresDSN(), "host=localhost")
	assert.Contains(t, cfg.PostgresDSN(), "dbname=gpx")
}

func TestLoadIngestTimeout(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)

	t.Setenv("INGEST_TIMEOUT", "2m")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.IngestTimeout)

	t.Setenv("INGEST_TIMEOUT", "45")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.IngestTimeout)

	t.Setenv("INGEST_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.ErrorContains(t, err, "mysql")
}

func TestOpenSQLite(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DBPath: filepath.Join(t.TempDir(), "gpx.db")}
	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { CloseDatabase(db) })

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
