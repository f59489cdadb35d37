package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"

	subjectKey = "auth_subject"
	scopesKey  = "auth_scopes"
)

// APIKeyAuth returns a middleware that validates API keys.
// validKeys maps each key to a label recorded as the caller subject.
// It checks the X-API-Key header first, then falls back to api_key query parameter.
// If validKeys is nil or empty, authentication is disabled.
func APIKeyAuth(validKeys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(validKeys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}

		if key == "" {
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyAPIKeyRequired)
			return
		}

		label, ok := validKeys[key]
		if !ok {
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyInvalidAPIKey)
			return
		}

		setCaller(c, "api-key:"+label, dto.AllScopes)
		c.Next()
	}
}

// RequireScope rejects callers whose credentials do not grant scope.
// It must run after APIKeyAuth or JWTAuth.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(scopesKey)
		if !exists {
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyUnauthorized)
			return
		}
		scopes, _ := v.([]string)
		if !slices.Contains(scopes, scope) {
			abortWith(c, http.StatusForbidden, i18n.ErrKeyForbidden)
			return
		}
		c.Next()
	}
}

// GetSubject returns the authenticated caller, or "" for anonymous requests.
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

func setCaller(c *gin.Context, subject string, scopes []string) {
	c.Set(subjectKey, subject)
	c.Set(scopesKey, scopes)
}

func abortWith(c *gin.Context, status int, messageKey string) {
	message := i18n.Message(c, messageKey)
	errorResp := dto.NewError(dto.ErrCodeFromStatus(status), message).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(status, errorResp)
}
