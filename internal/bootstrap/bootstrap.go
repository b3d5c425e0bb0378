package bootstrap

import (
	"go-logsink/internal/config"
	"go-logsink/internal/database"
	"go-logsink/internal/handlers"
	"go-logsink/internal/logging"
	"go-logsink/internal/models"
	"go-logsink/internal/repositories"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppComponents holds the initialized sink components.
type AppComponents struct {
	LogRepo       repositories.LogRepository
	DBHandler     *logging.DBHandler
	Stack         *logging.Stack // DBHandler, then the file/console logger
	IngestHandler *handlers.IngestHandler
	Loggers       *logging.AppLoggers
}

// InitializeAppComponents creates and wires up the repository, the database
// handler, the handler stack used for external records and the loggers.
func InitializeAppComponents(
	cfg *config.Config,
	baseLogger *zap.Logger, // Used by the repository and handler for their own diagnostics
	logDB *sqlx.DB,
	fileSyncer zapcore.WriteSyncer,
) (*AppComponents, error) {
	baseLogger.Info("Initializing application components: Repository, Handlers, Loggers...")

	// --- 1. Repository ---
	logRepo := newLogRepository(logDB, baseLogger)

	// --- 2. Database handler ---
	dbHandler := logging.NewDBHandler(logRepo, logging.DBHandlerOptions{
		TableName:  cfg.LogTable,
		DateFormat: cfg.LogDateFormat,
		ColumnMap:  cfg.LogColumnMap,
		Level:      cfg.SinkLevel(),
		Bubble:     cfg.LogSinkBubble,
		Processors: buildProcessors(cfg),
	}, baseLogger)
	baseLogger.Info("Database handler initialized.",
		zap.String("table", cfg.LogTable),
		zap.Bool("columnMap", cfg.LogColumnMap != nil),
		zap.Strings("processors", cfg.LogProcessors),
	)

	// --- 3. Loggers ---
	// The sink logger dispatches straight to the database handler; its
	// entries reach the console/file through the zap tee instead.
	appLoggers, err := logging.InitializeLoggers(cfg, dbHandler, fileSyncer)
	if err != nil {
		return nil, err
	}

	// --- 4. Stack for external records (HTTP ingest, pipe) ---
	stack := logging.NewStack(
		dbHandler,
		logging.NewZapHandler(appLoggers.File.Named("records"), models.LevelDebug, true),
	)

	// --- 5. HTTP handlers ---
	ingestHandler := handlers.NewIngestHandler(stack, appLoggers.File)

	appLoggers.File.Info("Application components initialization complete.")
	return &AppComponents{
		LogRepo:       logRepo,
		DBHandler:     dbHandler,
		Stack:         stack,
		IngestHandler: ingestHandler,
		Loggers:       appLoggers,
	}, nil
}

// newLogRepository picks the transactional repository for drivers that only
// flush prepared inserts on commit.
func newLogRepository(logDB *sqlx.DB, logger *zap.Logger) repositories.LogRepository {
	if database.InsertNeedsCommit(logDB.DriverName()) {
		logger.Info("Log inserts run in a committed transaction.", zap.String("driver", logDB.DriverName()))
		return repositories.NewTxLogRepository(logDB, logger)
	}
	return repositories.NewLogRepository(logDB, logger)
}

// buildProcessors maps LOG_PROCESSORS names to processors, in order.
func buildProcessors(cfg *config.Config) []logging.Processor {
	processors := make([]logging.Processor, 0, len(cfg.LogProcessors))
	for _, name := range cfg.LogProcessors {
		switch name {
		case "psr":
			processors = append(processors, logging.PsrMessageProcessor(cfg.LogDateFormat))
		case "uid":
			processors = append(processors, logging.UIDProcessor())
		case "hostname":
			processors = append(processors, logging.HostnameProcessor())
		}
	}
	return processors
}
