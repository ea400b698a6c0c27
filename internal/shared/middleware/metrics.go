package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/server/internal/shared/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per route pattern. Requests for
// the paths in skip (scrapes and health checks) are not recorded.
func Metrics(m *metrics.Metrics, skip ...string) gin.HandlerFunc {
	ignored := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		ignored[p] = struct{}{}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if _, ok := ignored[route]; ok {
			c.Next()
			return
		}
		if route == "" {
			route = unmatchedRoute
		}

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
