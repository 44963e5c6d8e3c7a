package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"palletbook/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.WithContext(c.Request.Context()).
			WithDay(c.Param("contractorId"), c.Param("warehouseId"), c.Param("date")).
			Infow("http request",
				"method", c.Request.Method,
				"route", c.FullPath(),
				"path", path,
				"query", query,
				"status", c.Writer.Status(),
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.ClientIP(),
				"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
			)
	}
}
