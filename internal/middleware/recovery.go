package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"github.com/guttosm/loadplan-service/internal/logger"
	"github.com/guttosm/loadplan-service/internal/metrics"
)

// Recovery turns a handler panic into a 500 carrying the request id. When an
// export has already started streaming the body cannot be replaced, so the
// response is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			metrics.RecordPanic(path)

			requestID := GetRequestID(c)
			log := logger.ForRequest(requestID)
			log.Error().
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Bool("partial_response", c.Writer.Written()).
				Msg("PANIC recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, i18n.Message(c, i18n.ErrKeyInternalError)).WithRequestID(requestID))
		}()
		c.Next()
	}
}
