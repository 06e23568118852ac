package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/pkg/metrics"
)

// MetricsMiddleware records request count and latency per route.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		// Route path keeps the label set bounded; unmatched requests share one label.
		endpoint := c.Route().Path
		if endpoint == "" || (endpoint == "/" && c.Path() != "/") {
			endpoint = "unmatched"
		}

		durationMs := float64(time.Since(start).Milliseconds())
		statusCode := strconv.Itoa(status)
		metrics.RecordHTTPRequest(endpoint, c.Method(), statusCode)
		metrics.RecordHTTPRequestDuration(endpoint, c.Method(), statusCode, durationMs)

		return err
	}
}
