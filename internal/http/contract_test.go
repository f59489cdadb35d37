//go:build contract

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/middleware"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contractAllocate = `{"item": {"sku": "CARTON-60", "width": 60, "depth": 40, "height": 20}, "quantity": 1500,
		"containers": [{"id": 1, "inner_width": 600, "inner_depth": 400, "inner_height": 200},
		               {"id": 2, "inner_width": 300, "inner_depth": 400, "inner_height": 200}]}`
	contractMulti = `{"items": [
			{"item": {"sku": "CRATE", "width": 60, "depth": 60, "height": 50, "keep_upright": true}, "quantity": 1},
			{"item": {"sku": "TIN", "width": 30, "depth": 30, "height": 50, "keep_upright": true}, "quantity": 4}],
		"containers": [{"id": 1, "inner_width": 120, "inner_depth": 60, "inner_height": 50}]}`
	contractProject = `{"item": {"width": 60, "depth": 40, "height": 20}, "quantity": 12,
		"containers": [{"id": 1, "inner_width": 600, "inner_depth": 400, "inner_height": 200}], "shipment_index": 0}`
)

func contractRouter(t *testing.T) *gin.Engine {
	planner := service.NewPlanningService()
	t.Cleanup(planner.Close)
	handler := NewHandler(planner)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(), middleware.ErrorHandler())
	NewHealthHandler().Register(router)
	NewPlanRoutes(handler).RegisterRoutes(router.Group("/api"), &RouterConfig{})
	return router
}

func dataObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp["request_id"], "Response must include request_id")
	assert.NotEmpty(t, resp["timestamp"], "Response must include timestamp")
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "Response must include a data object")
	return data
}

func requireKeys(t *testing.T, obj map[string]interface{}, keys ...string) {
	t.Helper()
	for _, k := range keys {
		assert.Contains(t, obj, k)
	}
}

func validateShipment(t *testing.T, raw interface{}) {
	t.Helper()
	shipment, ok := raw.(map[string]interface{})
	require.True(t, ok)
	requireKeys(t, shipment, "container", "kind", "quantity")

	container, ok := shipment["container"].(map[string]interface{})
	require.True(t, ok)
	requireKeys(t, container, "id", "inner_width", "inner_depth", "inner_height")

	switch shipment["kind"] {
	case "standard":
		plan, ok := shipment["plan"].(map[string]interface{})
		require.True(t, ok, "standard shipments carry plan")
		requireKeys(t, plan, "container_id", "orientation", "nx", "ny", "layers", "capacity", "void_ratio", "weight_ok")
		assert.NotContains(t, shipment, "extended_plan")
	case "extended":
		plan, ok := shipment["extended_plan"].(map[string]interface{})
		require.True(t, ok, "extended shipments carry extended_plan")
		requireKeys(t, plan, "container_id", "layers", "total_capacity", "used_height", "void_ratio")
		assert.NotContains(t, shipment, "plan")
	default:
		t.Fatalf("unexpected shipment kind %v", shipment["kind"])
	}
}

func validateGroups(t *testing.T, raw interface{}) {
	t.Helper()
	groups, ok := raw.([]interface{})
	require.True(t, ok, "groups must be an array")
	for _, g := range groups {
		group, ok := g.(map[string]interface{})
		require.True(t, ok)
		requireKeys(t, group, "container_id", "start_index", "end_index", "count")
	}
}

// TestAPI_ContractCompliance validates that API responses match the documented contract.
func TestAPI_ContractCompliance(t *testing.T) {
	router := contractRouter(t)

	tests := []struct {
		name             string
		method           string
		path             string
		body             string
		expectedStatus   int
		validateResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "POST /api/plans/allocate - Success 200",
			method:         http.MethodPost,
			path:           "/api/plans/allocate",
			body:           contractAllocate,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				result := dataObject(t, w)
				requireKeys(t, result, "plan_id", "mode", "requested", "shipped", "shipments", "leftover", "groups")
				assert.NotContains(t, result, "leftover_by_item")
				assert.Equal(t, "standard", result["mode"])
				assert.Equal(t, float64(1500), result["requested"])
				assert.Equal(t, float64(1500), result["shipped"])

				shipments, ok := result["shipments"].([]interface{})
				require.True(t, ok)
				require.NotEmpty(t, shipments)
				for _, s := range shipments {
					validateShipment(t, s)
				}
				validateGroups(t, result["groups"])
			},
		},
		{
			name:           "POST /api/plans/multi - Success 200",
			method:         http.MethodPost,
			path:           "/api/plans/multi",
			body:           contractMulti,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				result := dataObject(t, w)
				requireKeys(t, result, "plan_id", "mode", "shipments", "leftover", "leftover_by_item", "groups")
				assert.Equal(t, "multi", result["mode"])
				assert.Equal(t, []interface{}{float64(0), float64(0)}, result["leftover_by_item"])

				shipments, ok := result["shipments"].([]interface{})
				require.True(t, ok)
				for _, s := range shipments {
					validateShipment(t, s)
					assert.Contains(t, s.(map[string]interface{}), "item_quantities")
				}
			},
		},
		{
			name:           "POST /api/plans/single - Success 200",
			method:         http.MethodPost,
			path:           "/api/plans/single",
			body:           contractAllocate,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := dataObject(t, w)
				requireKeys(t, resp, "feasible", "kind", "plan")
				assert.Equal(t, true, resp["feasible"])
			},
		},
		{
			name:           "POST /api/plans/project - Success 200",
			method:         http.MethodPost,
			path:           "/api/plans/project",
			body:           contractProject,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				projection := dataObject(t, w)
				requireKeys(t, projection, "plan_id", "shipment_index", "shipment", "positions", "groups")
				validateShipment(t, projection["shipment"])

				positions, ok := projection["positions"].([]interface{})
				require.True(t, ok)
				require.Len(t, positions, 12)
				for _, p := range positions {
					requireKeys(t, p.(map[string]interface{}), "index", "item_index", "x", "y", "z", "width", "depth", "height")
				}
			},
		},
		{
			name:           "POST /api/plans/batch - Success 200",
			method:         http.MethodPost,
			path:           "/api/plans/batch",
			body:           `{"requests": [` + contractAllocate + `]}`,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := dataObject(t, w)
				requireKeys(t, resp, "entries", "failed")
				entries := resp["entries"].([]interface{})
				require.Len(t, entries, 1)
				requireKeys(t, entries[0].(map[string]interface{}), "index", "result")
			},
		},
		{
			name:           "POST /api/plans/allocate - Error 400 Invalid JSON",
			method:         http.MethodPost,
			path:           "/api/plans/allocate",
			body:           `invalid json`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
				assert.NotZero(t, resp.Timestamp)
			},
		},
		{
			name:           "POST /api/plans/allocate - Error 400 Invalid Input",
			method:         http.MethodPost,
			path:           "/api/plans/allocate",
			body:           `{"item": {"width": 0, "depth": 40, "height": 20}, "quantity": 5, "containers": [{"id": 1, "inner_width": 600, "inner_depth": 400, "inner_height": 200}]}`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var raw map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
				requireKeys(t, raw, "error", "message", "details", "request_id", "timestamp")

				details, ok := raw["details"].(map[string]interface{})
				require.True(t, ok, "details maps field to reason")
				assert.Contains(t, details, "width")
			},
		},
		{
			name:           "POST /api/plans/allocate - Error 400 Container Out Of Scale",
			method:         http.MethodPost,
			path:           "/api/plans/allocate",
			body:           `{"item": {"width": 60, "depth": 40, "height": 20, "keep_upright": true}, "quantity": 10, "containers": [{"id": 1, "inner_width": 1e30, "inner_depth": 40, "inner_height": 20}]}`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp.Details, "dimensions")
			},
		},
		{
			name:           "POST /api/plans/project - Error 400 Shipment Index",
			method:         http.MethodPost,
			path:           "/api/plans/project",
			body:           `{"item": {"width": 60, "depth": 40, "height": 20}, "quantity": 12, "containers": [{"id": 1, "inner_width": 600, "inner_depth": 400, "inner_height": 200}], "shipment_index": 3}`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp.Details, "shipment_index")
			},
		},
		{
			name:           "GET /healthz - Success 200",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "ok", resp["status"])
			},
		},
		{
			name:           "GET /readyz - Success 200",
			method:         http.MethodGet,
			path:           "/readyz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				requireKeys(t, resp, "status", "checks")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code, "Status code mismatch: %s", w.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			tt.validateResponse(t, w)
		})
	}
}

// TestAPI_HeadersContract validates that required headers are present.
func TestAPI_HeadersContract(t *testing.T) {
	router := contractRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "X-Request-ID on plans", method: http.MethodPost, path: "/api/plans/allocate", body: contractAllocate},
		{name: "X-Request-ID on errors", method: http.MethodPost, path: "/api/plans/allocate", body: `{}`},
		{name: "X-Request-ID on health", method: http.MethodGet, path: "/healthz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

// TestAPI_RequestIDPropagation validates that a client supplied request id is echoed back.
func TestAPI_RequestIDPropagation(t *testing.T) {
	router := contractRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/plans/allocate", bytes.NewReader([]byte(contractAllocate)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "client-req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client-req-1", w.Header().Get(middleware.RequestIDHeader))

	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "client-req-1", resp.RequestID)
}
