package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/logger"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/rs/zerolog"
)

// quietPaths are hit by probes and scrapers. They are logged at debug level
// and never stored.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger logs one line per request and, with a logging service,
// stores it as an http_request entry through the async logger.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		route := c.FullPath()
		quiet := quietPaths[path]

		level := statusLevel(status)
		if quiet && level == zerolog.InfoLevel {
			level = zerolog.DebugLevel
		}

		requestID := GetRequestID(c)
		subject := GetSubject(c)
		log := logger.ForRequest(requestID)
		log.WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", route).
			Int("status_code", status).
			Int("bytes", c.Writer.Size()).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("subject", subject).
			Msg("HTTP request")

		if loggingService == nil || quiet {
			return
		}
		store(loggingService, &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      statusLevel(status).String(),
			Message:    "HTTP request",
			RequestID:  requestID,
			Method:     c.Request.Method,
			Path:       path,
			StatusCode: status,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Subject:    subject,
			ActionType: model.ActionHTTPRequest,
		})
	}
}

// statusLevel maps a response status to the level it is logged at.
func statusLevel(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}
