package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/metrics"
)

// Metrics returns a gin middleware that records request latency per matched
// route. Requests that match no route are grouped under "unmatched" to keep
// label cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
