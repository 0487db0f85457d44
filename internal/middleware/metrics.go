package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vtuber_wiki/internal/metrics"
)

// Metrics 記錄 HTTP 請求數、延遲與進行中的請求數。
// 以路由樣板 (例如 /vtubers/:id) 為標籤，避免 id 造成標籤爆量。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
