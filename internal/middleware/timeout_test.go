package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		handlerDelay time.Duration
		wantStatus   int
	}{
		{
			name:         "fast plan completes",
			timeout:      time.Second,
			handlerDelay: 10 * time.Millisecond,
			wantStatus:   http.StatusOK,
		},
		{
			name:       "zero delay completes",
			timeout:    time.Second,
			wantStatus: http.StatusOK,
		},
		{
			name:         "disabled timeout never fires",
			timeout:      0,
			handlerDelay: 20 * time.Millisecond,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "slow plan gets 504",
			timeout:      20 * time.Millisecond,
			handlerDelay: 200 * time.Millisecond,
			wantStatus:   http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestID(), Timeout(tt.timeout))
			router.POST("/api/plans/multi", func(c *gin.Context) {
				time.Sleep(tt.handlerDelay)
				if c.Request.Context().Err() != nil {
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/plans/multi", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTimeout_ErrorBodyAndMetric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Timeout(10*time.Millisecond))
	router.POST("/api/plans/batch", func(c *gin.Context) {
		time.Sleep(100 * time.Millisecond)
	})
	before := testutil.ToFloat64(metrics.RequestTimeoutsTotal.WithLabelValues("/api/plans/batch"))

	req := httptest.NewRequest(http.MethodPost, "/api/plans/batch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeTimeout, resp.Error)
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RequestTimeoutsTotal.WithLabelValues("/api/plans/batch")))
}

func TestTimeout_ContextHasDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var deadline time.Time
	hasDeadline := false
	router.Use(Timeout(time.Second))
	router.GET("/test", func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.True(t, hasDeadline, "context should have deadline set")
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
	assert.Equal(t, http.StatusOK, w.Code)
}
