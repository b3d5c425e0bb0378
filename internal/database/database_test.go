package database

import (
	"os"
	"path/filepath"
	"testing"

	"go-logsink/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sqliteConfig(driver, dsn string) *config.Config {
	return &config.Config{
		DBDriver:       driver,
		DBDSN:          dsn,
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	for _, driver := range []string{"sqlite3", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "logs")
			db, err := Open(sqliteConfig(driver, filepath.Join(dir, "logs.db")), zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			_, err = os.Stat(dir)
			assert.NoError(t, err)

			_, err = db.Exec(`CREATE TABLE tbl_log (message TEXT)`)
			require.NoError(t, err)

			var mode string
			require.NoError(t, db.Get(&mode, `PRAGMA journal_mode`))
			assert.Equal(t, "wal", mode)
		})
	}
}

func TestPrepareSQLiteKeepsExplicitParameters(t *testing.T) {
	dsn, err := prepareSQLite(sqliteConfig("sqlite3", "logs.db?_busy_timeout=100"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "logs.db?_busy_timeout=100", dsn)

	dsn, err = prepareSQLite(sqliteConfig("sqlite3", ":memory:"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)

	dsn, err = prepareModernSQLite(sqliteConfig("sqlite", "file:test.db?mode=memory"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "file:test.db?mode=memory", dsn)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(sqliteConfig("mysql", "user@/db"), zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInsertNeedsCommit(t *testing.T) {
	assert.True(t, InsertNeedsCommit("clickhouse"))
	for _, driver := range []string{"sqlite3", "sqlite", "godror", "postgres", "pgx"} {
		assert.False(t, InsertNeedsCommit(driver), driver)
	}
}
