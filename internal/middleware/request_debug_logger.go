package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxBodyLogSize = 1024 // Limit body size logged (e.g., 1KB)

// RequestDebugLogger logs incoming record payloads when the request logger
// is at Debug, then the response status and latency.
func RequestDebugLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := GetRequestFileLogger(c)
		startTime := time.Now()

		if logger.Core().Enabled(zapcore.DebugLevel) {
			var bodyLog string
			body := c.BodyRaw()
			contentType := string(c.Request().Header.ContentType())
			switch {
			case len(body) == 0:
				bodyLog = "(Empty Body)"
			case strings.Contains(contentType, "json") || strings.Contains(contentType, "text"):
				if len(body) > maxBodyLogSize {
					bodyLog = string(body[:maxBodyLogSize]) + "... (truncated)"
				} else {
					bodyLog = string(body)
				}
			default:
				bodyLog = fmt.Sprintf("(Binary or non-text body, size: %d bytes)", len(body))
			}

			logger.Debug("Incoming Request Details",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.String("body", bodyLog),
			)
		}

		err := c.Next()

		logger.Debug("Request Handled",
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
		)
		return err
	}
}
