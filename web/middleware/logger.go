package middleware

import (
	"time"

	"github.com/secretsweb/secrets/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs every request at debug level.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s %d %s %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
