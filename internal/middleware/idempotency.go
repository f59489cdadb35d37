// Package middleware provides HTTP middleware components for the load planning service.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute
	// IdempotencyReplayedHeader marks a response served from the idempotency cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
)

// cachedResponse stores a cached HTTP response for idempotency.
type cachedResponse struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string
	Body        []byte
	Timestamp   time.Time
}

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   *idempotencyCache
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   newIdempotencyCache(IdempotencyKeyTTL, idempotencyCapacity),
		TTL:     IdempotencyKeyTTL,
		Enabled: true,
	}
}

// Stop releases the cleanup goroutine of the configured cache.
func (cfg IdempotencyConfig) Stop() {
	if cfg.Cache != nil {
		cfg.Cache.Stop()
	}
}

// Idempotency returns a middleware that handles idempotency using the Idempotency-Key header.
// A repeated key from the same caller with the same method, path and body replays the
// stored 2xx response, and gets 409 while the first request is still running.
// Catalog writes rely on it to make client retries safe.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey := generateCacheKey(key, GetSubject(c), c.Request)

		cachedResp, state := cfg.Cache.Begin(cacheKey)
		switch state {
		case keyStored:
			for k, v := range cachedResp.Headers {
				c.Header(k, v)
			}
			c.Header(IdempotencyReplayedHeader, "true")
			contentType := cachedResp.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			c.Data(cachedResp.StatusCode, contentType, cachedResp.Body)
			c.Abort()
			return
		case keyInFlight:
			abortWith(c, http.StatusConflict, i18n.ErrKeyConflict)
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		c.Writer = writer

		stored := false
		defer func() {
			if !stored {
				cfg.Cache.Release(cacheKey)
			}
		}()

		c.Next()

		if writer.statusCode < 200 || writer.statusCode >= 300 {
			return
		}
		headers := make(map[string]string)
		for k, v := range writer.ResponseWriter.Header() {
			if len(v) > 0 && replayableHeader(k) {
				headers[k] = v[0]
			}
		}
		cfg.Cache.Complete(cacheKey, &cachedResponse{
			StatusCode:  writer.statusCode,
			ContentType: writer.ResponseWriter.Header().Get("Content-Type"),
			Headers:     headers,
			Body:        writer.body.Bytes(),
		})
		stored = true
	}
}

// replayableHeader reports whether a response header belongs to the stored
// response rather than to the request that produced it.
func replayableHeader(name string) bool {
	switch {
	case name == "Content-Type", name == "Content-Length", name == http.CanonicalHeaderKey(RequestIDHeader):
		return false
	case strings.HasPrefix(name, "X-Ratelimit-"), name == "Retry-After":
		return false
	}
	return true
}

// generateCacheKey hashes the idempotency key with the caller and request details.
func generateCacheKey(idempotencyKey, subject string, req *http.Request) string {
	hasher := sha256.New()
	for _, part := range []string{idempotencyKey, subject, req.Method, req.URL.Path} {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0})
	}

	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		hasher.Write(bodyBytes)
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// responseWriter captures the response for caching.
type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
