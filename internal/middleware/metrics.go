package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/school-workshop/movie-review-challenge/internal/metrics"
)

// Metrics records request count and latency per route template.  Requests
// that match no route are recorded under "unmatched" to bound cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(
				c.Request().Method,
				route,
				strconv.Itoa(c.Response().Status),
				time.Since(start),
			)
			return nil
		}
	}
}
