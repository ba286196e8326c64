package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/numisma-api/internal/metrics"
)

// Metrics считает запросы и их длительность по шаблону маршрута
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}

		metrics.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
