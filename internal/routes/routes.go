package routes

import (
	"context"
	"time"

	"go-logsink/internal/config"
	"go-logsink/internal/handlers"
	mw "go-logsink/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SetupRoutes configures the application routes.
func SetupRoutes(
	app *fiber.App,
	cfg *config.Config,
	logger *zap.Logger,
	ingestHandler *handlers.IngestHandler,
	logDB *sqlx.DB, // Pass DB handle for health check
) {
	logger.Info("Setting up application routes...")

	app.Get("/health", func(c *fiber.Ctx) error {
		lg := mw.GetRequestFileLogger(c)
		healthStatus := fiber.Map{"status": "healthy", "timestamp": time.Now().UTC()}
		dbStatus := fiber.Map{}

		if logDB != nil {
			pingCtx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
			defer cancel()
			if err := logDB.PingContext(pingCtx); err == nil {
				dbStatus[cfg.DBDriver] = "connected"
			} else {
				dbStatus[cfg.DBDriver] = "disconnected"
				healthStatus["status"] = "degraded"
				lg.Warn("Health check: log database ping failed", zap.Error(err))
			}
		} else {
			dbStatus[cfg.DBDriver] = "uninitialized"
			healthStatus["status"] = "degraded"
		}
		healthStatus["dependencies"] = dbStatus
		return c.Status(fiber.StatusOK).JSON(healthStatus)
	})

	var api fiber.Router
	if cfg.JWTSecret != "" {
		api = app.Group("/api/v1", mw.Protected(cfg.JWTSecret))
	} else {
		logger.Warn("JWT_SECRET is empty, the ingest endpoint accepts unauthenticated records.")
		api = app.Group("/api/v1")
	}
	ingestHandler.SetupIngestRoutes(api) // POST /api/v1/logs
}
