package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
)

// AccessLog logs one line per request and feeds the HTTP metrics when m
// is set.
func AccessLog(log *logging.Logger, m *metrics.HTTPMetrics) gin.HandlerFunc {
	if log == nil {
		log = logging.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if m != nil {
			m.Observe(route, c.Request.Method, statusClass(status), elapsed.Seconds())
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
			"request_id", c.GetString(ContextRequestID),
		}
		if id, ok := UserID(c); ok {
			attrs = append(attrs, "user_id", id)
		}
		log.Log(c.Request.Context(), level, "request", attrs...)
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
