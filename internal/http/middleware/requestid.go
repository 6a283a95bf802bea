package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schemeagent/internal/logger"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
	// ErrorLocalKey holds an internal error a handler answered with a generic 500.
	ErrorLocalKey = "internal_error"
)

// RequestID ensures every request has an ID. It reads X-Request-ID or
// generates a UUID, stores it in locals and in the user context (so
// services and agents log it), and echoes it in the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
