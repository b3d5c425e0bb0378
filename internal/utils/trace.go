package utils

import (
	"fmt"
	"sort"

	"go-logsink/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TraceConfigDetails(logger *zap.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		fmt.Println("[WARN] logger or config is nil in TraceConfigDetails")
		return
	}
	maskedJWTSecret := "*** MASKED ***"
	if cfg.JWTSecret == "" {
		maskedJWTSecret = "--- EMPTY (ingest endpoint is unauthenticated) ---"
	} else if len(cfg.JWTSecret) < 8 {
		maskedJWTSecret = fmt.Sprintf("*** MASKED (short: %d chars) ***", len(cfg.JWTSecret))
	}

	columnMapFields := "none (one column per field)"
	if cfg.LogColumnMap != nil {
		names := make([]string, 0, len(cfg.LogColumnMap))
		for field := range cfg.LogColumnMap {
			names = append(names, field)
		}
		sort.Strings(names)
		columnMapFields = fmt.Sprint(names)
	}

	fields := []zapcore.Field{
		zap.String("AppEnv", cfg.AppEnv),
		zap.String("Port", cfg.Port),
		zap.String("JWTSecret", maskedJWTSecret),
		zap.String("DBDriver", cfg.DBDriver),
		zap.String("DBDSN", MaskDSN(cfg.DBDSN)),
		zap.Int("DBMaxOpenConns", cfg.DBMaxOpenConns),
		zap.Int("DBMaxIdleConns", cfg.DBMaxIdleConns),
		zap.Int("DBConnMaxLifetimeMinutes", cfg.DBConnMaxLifetimeMinutes),
		zap.Int("DBConnMaxIdleTimeMinutes", cfg.DBConnMaxIdleTimeMinutes),
		zap.Int("DBWriteTimeoutSeconds", cfg.DBWriteTimeoutSeconds),
		zap.String("LogTable", cfg.LogTable),
		zap.String("LogDateFormat", cfg.LogDateFormat),
		zap.String("LogColumnMapFile", cfg.LogColumnMapFile),
		zap.String("LogColumnMapFields", columnMapFields),
		zap.String("LogSinkLevel", cfg.LogSinkLevel),
		zap.Bool("LogSinkBubble", cfg.LogSinkBubble),
		zap.String("LogChannel", cfg.LogChannel),
		zap.String("LogFilePath", cfg.LogFilePath),
		zap.String("LogLevel", cfg.LogLevel),
		zap.Int("LogRotateIntervalHours", cfg.LogRotateInterval),
		zap.Int("LogMaxSizeMB", cfg.LogMaxSize),
		zap.Int("LogMaxBackups", cfg.LogMaxBackups),
		zap.Int("LogMaxAgeDays", cfg.LogMaxAge),
		zap.Bool("LogCompress", cfg.LogCompress),
		zap.String("CORS_AllowOrigins", cfg.CORSAllowOrigins),
		zap.String("CORS_AllowMethods", cfg.CORSAllowMethods),
		zap.String("CORS_AllowHeaders", cfg.CORSAllowHeaders),
	}
	logger.Debug("Loaded application configuration details", fields...)
}
