package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go-logsink/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap" // Use logger for loading errors
)

// Config holds all configuration for the application
type Config struct {
	AppEnv           string
	Port             string
	CORSAllowOrigins string
	CORSAllowMethods string
	CORSAllowHeaders string
	JWTSecret        string // empty: ingest endpoint is open

	DBDriver                 string `validate:"required,oneof=sqlite3 sqlite godror postgres pgx clickhouse"`
	DBDSN                    string `validate:"required"`
	DBMaxOpenConns           int    `validate:"gte=0"`
	DBMaxIdleConns           int    `validate:"gte=0"`
	DBConnMaxLifetimeMinutes int    `validate:"gte=0"`
	DBConnMaxIdleTimeMinutes int    `validate:"gte=0"`
	DBWriteTimeoutSeconds    int    `validate:"gte=0"`

	LogTable         string `validate:"required"`
	LogDateFormat    string `validate:"required"`
	LogColumnMapFile string
	// LogColumnMap stays nil when no map is configured.
	LogColumnMap  models.ColumnMap
	LogSinkLevel  string `validate:"required"`
	LogSinkBubble bool
	LogChannel    string   `validate:"required"`
	LogProcessors []string `validate:"dive,oneof=psr uid hostname"`

	LogFilePath       string
	LogLevel          string
	LogRotateInterval int // Hour
	LogMaxSize        int // MB
	LogMaxBackups     int
	LogMaxAge         int // Days
	LogCompress       bool
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads configuration from environment variables or .env file
func LoadConfig(logger *zap.Logger) (*Config, error) { // logger can be nil here
	if logger == nil {
		logger = zap.NewNop()
	}
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "local" // Default to local if not set
	}

	envFileName := fmt.Sprintf(".env.%s", appEnv)
	if _, err := os.Stat(envFileName); err == nil {
		if err := godotenv.Load(envFileName); err != nil {
			logger.Warn("Error loading .env file, continuing with environment variables", zap.String("file", envFileName), zap.Error(err))
		} else {
			logger.Info("Loaded configuration", zap.String("file", envFileName))
		}
	} else {
		logger.Debug("No .env file found for environment, relying on environment variables or defaults", zap.String("environment", appEnv))
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "local"),
		Port:      getEnv("PORT", "3000"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		DBDriver:                 strings.ToLower(getEnv("DB_DRIVER", "sqlite3")),
		DBDSN:                    getEnv("DB_DSN", "./logs/logs.db"),
		DBMaxOpenConns:           getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:           getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMinutes: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
		DBConnMaxIdleTimeMinutes: getEnvAsInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 10),
		DBWriteTimeoutSeconds:    getEnvAsInt("DB_WRITE_TIMEOUT_SECONDS", 5),

		LogTable:         getEnv("LOG_TABLE", "tbl_log"),
		LogDateFormat:    getEnv("LOG_DATE_FORMAT", "Y-m-d H:i:s.v"),
		LogColumnMapFile: getEnv("LOG_COLUMN_MAP_FILE", ""),
		LogSinkLevel:     getEnv("LOG_SINK_LEVEL", "debug"),
		LogSinkBubble:    getEnvAsBool("LOG_SINK_BUBBLE", true),
		LogChannel:       getEnv("LOG_CHANNEL", "app"),
		LogProcessors:    getEnvAsList("LOG_PROCESSORS", "psr"),

		LogFilePath:       getEnv("LOG_FILE_PATH", "./logs/app.log"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogRotateInterval: getEnvAsInt("LOG_ROTATE_INTERVAL", 1),
		LogMaxSize:        getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups:     getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAge:         getEnvAsInt("LOG_MAX_AGE", 30),
		LogCompress:       getEnvAsBool("LOG_COMPRESS", false),

		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		CORSAllowMethods: getEnv("CORS_ALLOW_METHODS", "GET,POST,HEAD"),
		CORSAllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Type,Accept,Authorization"),
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "dpanic": true, "panic": true, "fatal": true}
	if !validLevels[cfg.LogLevel] {
		logger.Warn("Invalid LOG_LEVEL specified, defaulting to 'info'", zap.String("invalidLevel", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if _, err := models.ParseLevel(cfg.LogSinkLevel); err != nil {
		return nil, fmt.Errorf("LOG_SINK_LEVEL: %w", err)
	}

	switch {
	case os.Getenv("LOG_COLUMN_MAP") != "":
		columnMap, err := ParseColumnMap([]byte(os.Getenv("LOG_COLUMN_MAP")))
		if err != nil {
			return nil, fmt.Errorf("LOG_COLUMN_MAP: %w", err)
		}
		cfg.LogColumnMap = columnMap
	case cfg.LogColumnMapFile != "":
		columnMap, err := LoadColumnMapFile(cfg.LogColumnMapFile)
		if err != nil {
			return nil, err
		}
		cfg.LogColumnMap = columnMap
		logger.Info("Loaded log column map", zap.String("file", cfg.LogColumnMapFile), zap.Int("entries", len(columnMap)))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and returns the first failures joined in one error.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// SinkLevel returns the parsed LogSinkLevel. LoadConfig has already
// rejected unknown names.
func (c *Config) SinkLevel() models.Level {
	lvl, err := models.ParseLevel(c.LogSinkLevel)
	if err != nil {
		return models.LevelDebug
	}
	return lvl
}

// Helper function to get env var or default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get env var as int or default
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper function to get a comma separated env var as a lower-case list
func getEnvAsList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper function to get env var as bool or default
func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
