package server

import (
	"time"

	"chit-auction/internal/metrics"
	"chit-auction/services/auction/handler"
	"chit-auction/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing and records them in metrics
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	latency := time.Since(start)
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), latency)

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": latency.String(),
	})
}

// AdminMiddleware marks the request as coming from the admin console
func AdminMiddleware(c *gin.Context) {
	c.Set(handler.AdminKey, true)
	c.Next()
}
