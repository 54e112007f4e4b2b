package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/dealspot/internal/logger"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "requestID"
	loggerContextKey    = "logger"
)

// RequestID assigns each request an id, echoes it in the response header and
// stores a request-scoped logger carrying it.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(requestIDContextKey, id)
		c.Locals(loggerContextKey, logger.L().With(zap.String("request_id", id)))
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the request id assigned by RequestID.
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// RequestLogger returns the request-scoped logger, falling back to the
// global one outside the middleware chain.
func RequestLogger(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(loggerContextKey).(*zap.Logger); ok {
		return l
	}
	return logger.L()
}
