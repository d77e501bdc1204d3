package fiber

import (
	"strconv"

	"booking-attribution-service/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestMetrics counts requests by route and status and logs failures.
func RequestMetrics(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.HTTPRequests.WithLabelValues(c.Route().Path, strconv.Itoa(status)).Inc()

		if status >= fiber.StatusInternalServerError {
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			log.Error("request failed", fields...)
		}
		return err
	}
}
