package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request and records its latency per route.
func RequestLogger(log *slog.Logger, appMetrics *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		appMetrics.HTTPRequestSecs.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(latency.Seconds())

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.Errors())
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			log.ErrorContext(ctx, "HTTP request", attrs...)
		case status >= http.StatusBadRequest:
			log.WarnContext(ctx, "HTTP request", attrs...)
		default:
			log.InfoContext(ctx, "HTTP request", attrs...)
		}
	}
}

// Recovery turns a handler panic into a 500 response.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.ErrorContext(c.Request.Context(), "Panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", err,
				)
				abortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
