package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
)

// RequestLogger attaches a request-scoped logger to the user context and logs
// each completed request. It expects the requestid middleware to run first.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqLog := logger.GetLogger().With(
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
		)
		c.SetUserContext(logger.NewContext(c.UserContext(), reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		attrs := []any{"status", status, "duration", time.Since(start)}
		switch {
		case status >= fiber.StatusInternalServerError:
			reqLog.Error("Request completed", append(attrs, "error", err)...)
		case status >= fiber.StatusBadRequest:
			reqLog.Warn("Request completed", attrs...)
		default:
			reqLog.Info("Request completed", attrs...)
		}
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
