package logger

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// logs one line per request and stores a request-scoped logger in the request context
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		reqLogger := defaultLogger.With("method", c.Request.Method, "path", path)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		// set by the auth middleware when a principal is attached
		if userID := c.GetString("user_id"); userID != "" {
			args = append(args, "user_id", userID)
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		reqLogger.Log(c.Request.Context(), level, "request completed", args...)
	}
}
