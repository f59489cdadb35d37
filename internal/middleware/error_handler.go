package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"github.com/guttosm/loadplan-service/internal/logger"
	"github.com/rs/zerolog"
)

// ErrorHandler answers requests whose handlers recorded a gin error without
// writing a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)
		status, key := classifyContextError(err)

		// the client went away; there is nobody to answer
		if errors.Is(err.Err, context.Canceled) {
			status = 0
		}

		log := logger.ForRequest(requestID)
		event := log.WithLevel(errorLevel(status))
		event.
			Err(err.Err).
			Int("errors", len(c.Errors)).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if status == 0 || c.Writer.Written() {
			return
		}
		c.JSON(status, dto.NewError(dto.ErrCodeFromStatus(status), i18n.Message(c, key)).WithRequestID(requestID))
	}
}

func classifyContextError(err *gin.Error) (int, string) {
	switch {
	case err.IsType(gin.ErrorTypeBind):
		return http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody
	case err.IsType(gin.ErrorTypePublic):
		return http.StatusBadRequest, i18n.ErrKeyInvalidRequest
	case errors.Is(err.Err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	}
	return http.StatusInternalServerError, i18n.ErrKeyInternalError
}

func errorLevel(status int) zerolog.Level {
	if status == 0 {
		return zerolog.DebugLevel
	}
	return statusLevel(status)
}
