package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-logsink/internal/bootstrap"
	"go-logsink/internal/config"
	"go-logsink/internal/database"
	"go-logsink/internal/logging"
	"go-logsink/internal/middleware"
	routes "go-logsink/internal/routes"
	"go-logsink/internal/utils"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxRecordLine bounds one NDJSON record read by Pipe.
const maxRecordLine = 1 << 20

type runtime struct {
	cfg        *config.Config
	fileLogger *zap.Logger
	logDB      *sqlx.DB
	components *bootstrap.AppComponents
}

// setup loads the configuration, opens the log database and wires the sink.
func setup() (*runtime, error) {
	initStartTime := time.Now()

	tempConfigLogger, _ := zap.NewProduction(zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	defer tempConfigLogger.Sync()

	cfg, err := config.LoadConfig(tempConfigLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	fileSyncer, err := logging.NewFileSyncer(cfg)
	if err != nil {
		return nil, err
	}

	logDB, err := database.Open(cfg, tempConfigLogger)
	if err != nil {
		return nil, err
	}

	components, err := bootstrap.InitializeAppComponents(cfg, tempConfigLogger, logDB, fileSyncer)
	if err != nil {
		logDB.Close()
		return nil, fmt.Errorf("failed to initialize application components: %w", err)
	}
	fileLogger := components.Loggers.File
	logging.SetGlobalLoggers(fileLogger, components.Loggers.Sink)
	utils.TraceConfigDetails(fileLogger, cfg)

	fileLogger.Info(fmt.Sprintf("Completed initialization in %d ms.", time.Since(initStartTime).Milliseconds()))
	return &runtime{cfg: cfg, fileLogger: fileLogger, logDB: logDB, components: components}, nil
}

func (rt *runtime) close() {
	rt.fileLogger.Info("Syncing file/console logger before shutdown...")
	if errSync := rt.fileLogger.Sync(); errSync != nil {
		errMsg := errSync.Error()
		if !strings.Contains(errMsg, "handle is invalid") && !strings.Contains(errMsg, "sync /dev/std") {
			fmt.Fprintf(os.Stderr, "[WARN] Error syncing file/console logger: %v\n", errSync)
		}
	}
	if rt.logDB != nil {
		if errClose := rt.logDB.Close(); errClose != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Error closing log database: %v\n", errClose)
		}
	}
}

// Serve runs the HTTP ingest server until a shutdown signal arrives.
func Serve() error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, fileLogger := rt.cfg, rt.fileLogger
	// Lifecycle events are also stored as rows.
	sinkLogger := logging.GetSinkLogger()

	appFiber := fiber.New(fiber.Config{
		AppName: "logsink",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			lg := middleware.GetRequestFileLogger(c)
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) && e != nil {
				code = e.Code
			}
			fields := []zap.Field{
				zap.Int("status", code),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
				zap.Error(err),
			}
			if code == fiber.StatusNotFound {
				lg.Warn("Resource not found", fields...)
			} else {
				lg.Error("Generic ErrorHandler", fields...)
			}
			resp := fiber.Map{"error": "An unexpected error occurred"}
			if cfg.AppEnv != "production" {
				resp["detail"] = err.Error()
			}
			return c.Status(code).JSON(resp)
		},
	})

	appFiber.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.LogLevel == "debug",
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			middleware.GetRequestFileLogger(c).Error("Panic recovered", zap.Any("panic_value", e))
		},
	}))
	appFiber.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: cfg.CORSAllowMethods,
		AllowHeaders: cfg.CORSAllowHeaders,
	}))
	appFiber.Use(middleware.RequestLoggers(fileLogger))
	if cfg.LogLevel == "debug" {
		appFiber.Use(middleware.RequestDebugLogger())
	}
	appFiber.Use(fiberzap.New(fiberzap.Config{
		Logger: fileLogger,
		Fields: []string{"status", "method", "url", "ip", "latency", "error"},
		FieldsFunc: func(c *fiber.Ctx) []zap.Field {
			fields := []zap.Field{zap.String("log_type", "access")}
			if reqID := middleware.GetRequestID(c); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}
			return fields
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))

	routes.SetupRoutes(appFiber, cfg, fileLogger, rt.components.IngestHandler, rt.logDB)

	serverCtx, cancelServerCtx := context.WithCancel(context.Background())
	defer cancelServerCtx()
	serverStopped := make(chan struct{})

	go func() {
		defer close(serverStopped)
		listenAddr := ":" + cfg.Port
		sinkLogger.Info("Starting Fiber server...",
			zap.String("address", listenAddr),
			zap.Int("pid", os.Getpid()),
			zap.String("app_env", cfg.AppEnv),
		)
		if err := appFiber.Listen(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fileLogger.Error("Server listener failed", zap.String("address", listenAddr), zap.Error(err))
			cancelServerCtx()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)
	select {
	case s := <-sig:
		sinkLogger.Info("Shutdown signal received.", zap.String("signal", s.String()))
	case <-serverCtx.Done():
		fileLogger.Info("Server context cancelled, initiating shutdown.")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := appFiber.ShutdownWithContext(shutdownCtx); err != nil {
		fileLogger.Error("Fiber server shutdown failed", zap.Error(err))
	} else {
		fileLogger.Info("Fiber server gracefully stopped.")
	}
	<-serverStopped
	return nil
}

// Pipe sinks newline-delimited JSON records read from in. Bad lines and
// failed inserts are reported and skipped; the returned error counts them.
func Pipe(in io.Reader) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	total, failed, err := PipeRecords(ctx, in, rt.components.Stack, rt.fileLogger)
	if err != nil {
		return err
	}
	logging.GetSinkLogger().Info("Pipe finished", zap.Int("records", total), zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed", failed, total)
	}
	return nil
}

// PipeRecords feeds every non-blank line of in through sink until in is
// exhausted or ctx is done.
func PipeRecords(ctx context.Context, in io.Reader, sink logging.RecordHandler, logger *zap.Logger) (total, failed int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLine)
	line := 0
	for scanner.Scan() {
		line++
		if ctx.Err() != nil {
			return total, failed, ctx.Err()
		}
		data := scanner.Bytes()
		if len(strings.TrimSpace(string(data))) == 0 {
			continue
		}
		total++
		rec, decodeErr := logging.DecodeRecord(data)
		if decodeErr != nil {
			failed++
			logger.Warn("Skipping undecodable record", zap.Int("line", line), zap.Error(decodeErr))
			continue
		}
		if handleErr := sink.Handle(ctx, rec); handleErr != nil {
			failed++
			logger.Error("Failed to store record", zap.Int("line", line), zap.Error(handleErr))
		}
	}
	if err := scanner.Err(); err != nil {
		return total, failed, fmt.Errorf("reading records: %w", err)
	}
	return total, failed, nil
}
