package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"salesdash/logging"
)

// RequestLogger logs one line per request with its id, status and latency.
func RequestLogger(logger *logging.Logger) fiber.Handler {
	log := logger.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"requestId", c.GetRespHeader(fiber.HeaderXRequestID),
		}
		if status >= fiber.StatusInternalServerError {
			log.Warn("Request completed", attrs...)
		} else {
			log.Debug("Request completed", attrs...)
		}
		return err
	}
}
