package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/i18n"
)

// ErrEmptySecret is returned when a token validator is built without a key.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// TokenValidator checks HS256 bearer tokens issued by an external identity provider.
type TokenValidator struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenValidator creates a validator. An empty issuer accepts any issuer.
func NewTokenValidator(secret, issuer string) (*TokenValidator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenValidator{secret: []byte(secret), parser: jwt.NewParser(opts...)}, nil
}

// Validate parses and verifies a token.
func (v *TokenValidator) Validate(tokenString string) (*dto.Claims, error) {
	claims := &dto.Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("validate token: %w", jwt.ErrTokenRequiredClaimMissing)
	}
	return claims, nil
}

// JWTAuth returns a middleware that validates bearer tokens and records
// the token subject and scopes on the context.
func JWTAuth(validator *TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyTokenRequired)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}
		if tokenString == "" {
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := validator.Validate(tokenString)
		if err != nil {
			_ = c.Error(err)
			abortWith(c, http.StatusUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}

		setCaller(c, claims.Subject, claims.Scopes())
		c.Next()
	}
}
