package handlers

import (
	"go-logsink/internal/logging"
	"go-logsink/internal/middleware"
	"go-logsink/internal/models"
	"go-logsink/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IngestHandler accepts log records over HTTP and hands them to the sink.
type IngestHandler struct {
	sink   logging.RecordHandler
	logger *zap.Logger
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(sink logging.RecordHandler, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		sink:   sink,
		logger: logger,
	}
}

// Ingest handles POST /api/v1/logs requests
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	logger := middleware.GetRequestFileLogger(c)

	var req validation.IngestRequest
	if !validation.ParseAndValidate(c, &req) {
		return nil
	}

	rec, err := logging.DecodeRecord(c.Body())
	if err != nil {
		logger.Warn("Rejected log record", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid log record",
			"details": err.Error(),
		})
	}
	if source, ok := c.Locals(middleware.SourceKey).(string); ok && source != "" {
		rec = logging.WithExtra(rec, "source", models.Scalar(source))
	}

	if err := h.sink.Handle(c.UserContext(), rec); err != nil {
		logger.Error("Failed to store log record", zap.String("level", rec.Level().String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store log record",
		})
	}

	logger.Debug("Log record accepted", zap.String("level", rec.Level().String()))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":     "accepted",
		"request_id": middleware.GetRequestID(c),
	})
}

// SetupIngestRoutes registers the ingest routes on router.
func (h *IngestHandler) SetupIngestRoutes(router fiber.Router) {
	router.Post("/logs", h.Ingest)
}
