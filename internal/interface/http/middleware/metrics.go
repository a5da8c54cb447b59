package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/dvdrental/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests. Paths are
// route templates so ids never become label values.
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
