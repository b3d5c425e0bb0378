package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-logsink/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite Driver (cgo), "sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite Driver (pure Go), "sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// prepareSQLite makes sure the database directory exists and turns on WAL
// with a busy timeout for the mattn driver.
func prepareSQLite(cfg *config.Config, logger *zap.Logger) (string, error) {
	path, err := ensureSQLiteDir(cfg.DBDSN, logger)
	if err != nil {
		return "", err
	}
	if strings.Contains(cfg.DBDSN, "?") || path == "" {
		return cfg.DBDSN, nil
	}
	return cfg.DBDSN + "?_journal_mode=WAL&_busy_timeout=5000", nil
}

// prepareModernSQLite is prepareSQLite for modernc.org/sqlite, which takes
// pragmas instead of driver-specific parameters.
func prepareModernSQLite(cfg *config.Config, logger *zap.Logger) (string, error) {
	path, err := ensureSQLiteDir(cfg.DBDSN, logger)
	if err != nil {
		return "", err
	}
	if strings.Contains(cfg.DBDSN, "?") || path == "" {
		return cfg.DBDSN, nil
	}
	return cfg.DBDSN + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
}

// ensureSQLiteDir creates the parent directory of a file DSN. In-memory
// DSNs return an empty path.
func ensureSQLiteDir(dsn string, logger *zap.Logger) (string, error) {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return "", nil
	}

	dbDir := filepath.Dir(path)
	if dbDir == "." || dbDir == "/" { // Avoid trying to create "." or "/"
		return path, nil
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		logger.Info("SQLite database directory does not exist, creating...", zap.String("path", dbDir))
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("Failed to create SQLite database directory", zap.String("path", dbDir), zap.Error(err))
			return "", fmt.Errorf("failed to create sqlite db directory %s: %w", dbDir, err)
		}
	} else if err != nil {
		logger.Error("Failed to check status of SQLite database directory", zap.String("path", dbDir), zap.Error(err))
		return "", fmt.Errorf("failed to check status of sqlite db directory %s: %w", dbDir, err)
	}
	return path, nil
}
