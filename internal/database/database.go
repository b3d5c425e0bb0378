package database

import (
	"context"
	"fmt"
	"time"

	"go-logsink/internal/config"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// dsnPreparers adjust the configured DSN per driver before opening.
var dsnPreparers = map[string]func(cfg *config.Config, logger *zap.Logger) (string, error){
	"sqlite3":    prepareSQLite,
	"sqlite":     prepareModernSQLite,
	"godror":     passthroughDSN,
	"postgres":   passthroughDSN,
	"pgx":        passthroughDSN,
	"clickhouse": passthroughDSN,
}

// Open opens the log database pool for cfg.DBDriver. It returns the pool
// even when the initial ping fails; database/sql connects lazily.
func Open(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	prepare, ok := dsnPreparers[cfg.DBDriver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	dsn, err := prepare(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Opening log database connection pool...", zap.String("driver", cfg.DBDriver))
	db, err := sqlx.Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Error("Failed to open log database", zap.String("driver", cfg.DBDriver), zap.Error(err))
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DBDriver, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeMinutes) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		logger.Warn("Initial log database ping failed, pool created but connection may establish later", zap.String("driver", cfg.DBDriver), zap.Error(err))
		return db, nil
	}

	logger.Info("Log database pool initialized and initial ping successful.", zap.String("driver", cfg.DBDriver))
	return db, nil
}

func passthroughDSN(cfg *config.Config, _ *zap.Logger) (string, error) {
	return cfg.DBDSN, nil
}
