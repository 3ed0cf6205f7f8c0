package middleware

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(action, resource, details, ip, userAgent string) error
}

// SlogAuditWriter records audit entries through the structured log. There
// is no durable audit sink.
type SlogAuditWriter struct{}

// WriteAudit logs one audit record.
func (SlogAuditWriter) WriteAudit(action, resource, details, ip, userAgent string) error {
	slog.Info("audit",
		"action", action,
		"resource", resource,
		"details", details,
		"ip", ip,
		"user_agent", userAgent,
	)
	return nil
}

// AuditMiddleware logs every request.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		statusCode := c.Response().StatusCode()
		details := map[string]interface{}{
			"method":      method,
			"path":        path,
			"status":      statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)

		// Write audit log asynchronously; all values are captured above
		go func() {
			if writeErr := writer.WriteAudit(
				"http_request",
				"api",
				string(detailsJSON),
				ip,
				userAgent,
			); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
