package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facefit-backend/internal/observability"
)

// Metrics records request counts and latency by route template. Probe routes and
// unmatched paths are left out so scanners and health checks do not create series.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || probeRoutes[route] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
