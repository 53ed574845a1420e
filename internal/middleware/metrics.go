package middleware

import (
	"strconv"
	"time"

	"cryptopay/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency per route. Registered
// routes use the route pattern as the label, not the raw path, so
// cardinality stays bounded.
func Metrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	path := c.Route().Path
	if path == "" {
		path = "unmatched"
	}
	status := strconv.Itoa(c.Response().StatusCode())
	metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
	return err
}
