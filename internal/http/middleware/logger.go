package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Logger logs one line per request with request_id, method, path, status
// and latency in milliseconds. Server errors are logged at error level.
func Logger(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}

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
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if status >= fiber.StatusInternalServerError {
			if err != nil {
				fields = append(fields, zap.Error(err))
			} else if internal, ok := c.Locals(ErrorLocalKey).(error); ok {
				fields = append(fields, zap.Error(internal))
			}
			log.Error("request", fields...)
		} else {
			log.Info("request", fields...)
		}
		return err
	}
}
