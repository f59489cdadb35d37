package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"github.com/guttosm/loadplan-service/internal/logger"
	"github.com/guttosm/loadplan-service/internal/metrics"
)

// Timeout bounds the time spent planning one request. The handler runs with a
// deadline on its context that the planner and the catalog lookups observe. A
// handler that has not answered when the deadline passes gets a 504.
// A non-positive timeout disables the middleware.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// guards the response writer between the handler and the timeout branch
		var mu sync.Mutex
		var finished bool
		done := make(chan struct{})

		go func() {
			defer func() {
				recover() //nolint:errcheck
				close(done)
			}()
			c.Next()
			mu.Lock()
			finished = true
			mu.Unlock()
		}()

		select {
		case <-done:
			return
		case <-ctx.Done():
			mu.Lock()
			defer mu.Unlock()
			if finished {
				return
			}
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			metrics.RecordTimeout(path)
			log := logger.ForRequest(GetRequestID(c))
			log.Warn().
				Str("path", path).
				Dur("timeout", timeout).
				Msg("Request timed out")

			if !c.Writer.Written() {
				message := i18n.Message(c, i18n.ErrKeyTimeout)
				c.AbortWithStatusJSON(http.StatusGatewayTimeout,
					dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c)))
			}
		}
	}
}
