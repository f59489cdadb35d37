package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/circuitbreaker"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/mocks"
	"github.com/guttosm/loadplan-service/internal/repository"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/guttosm/loadplan-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope mirrors dto.SuccessResponse with the data left undecoded.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
	Timestamp time.Time       `json:"timestamp"`
}

func setupRouter(t *testing.T) *gin.Engine {
	planner := service.NewPlanningService()
	t.Cleanup(planner.Close)
	return NewRouter(NewHandler(planner), NewHealthHandler(), DefaultRouterConfig())
}

func setupRouterWithMock(t *testing.T, opts ...HandlerOption) (*gin.Engine, *mocks.MockPlanningService) {
	planner := mocks.NewMockPlanningService(t)
	return NewRouter(NewHandler(planner, opts...), NewHealthHandler(), DefaultRouterConfig()), planner
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.NotEmpty(t, env.RequestID)
	assert.NotZero(t, env.Timestamp)

	var data T
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	return resp
}

func quantities(shipments []model.Shipment) []int {
	out := []int{}
	for _, s := range shipments {
		out = append(out, s.Quantity)
	}
	return out
}

func mixedItems() []model.ItemQuantity {
	return []model.ItemQuantity{
		{Item: model.Item{SKU: "CRATE", Width: 60, Depth: 60, Height: 50, KeepUpright: true}, Quantity: 1},
		{Item: model.Item{SKU: "TIN", Width: 30, Depth: 30, Height: 50, KeepUpright: true}, Quantity: 4},
	}
}

func shelf() []model.Container {
	return []model.Container{{ID: 1, InnerWidth: 120, InnerDepth: 60, InnerHeight: 50}}
}

func TestPlanItem(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "standard plan",
			body:           dto.PlanItemRequest{Item: testutil.Carton(), Containers: testutil.Catalog()},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.PlanItemResponse](t, w)
				assert.True(t, resp.Feasible)
				assert.Equal(t, model.LayoutStandard, resp.Kind)
				require.NotNil(t, resp.Plan)
				assert.Equal(t, 1, resp.Plan.ContainerID)
				assert.Equal(t, 1000, resp.Plan.Capacity)
				assert.Nil(t, resp.ExtendedPlan)
			},
		},
		{
			name: "extended plan",
			body: dto.PlanItemRequest{
				Mode:       model.ModeExtended,
				Item:       testutil.Carton(),
				Containers: testutil.Catalog(),
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.PlanItemResponse](t, w)
				assert.True(t, resp.Feasible)
				assert.Equal(t, model.LayoutExtended, resp.Kind)
				require.NotNil(t, resp.ExtendedPlan)
				assert.Equal(t, 1000, resp.ExtendedPlan.TotalCapacity)
			},
		},
		{
			name: "no container holds one unit",
			body: dto.PlanItemRequest{
				Item:       model.Item{Width: 700, Depth: 700, Height: 700},
				Containers: testutil.Catalog(),
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeData[dto.PlanItemResponse](t, w)
				assert.False(t, resp.Feasible)
				assert.Nil(t, resp.Plan)
				assert.Nil(t, resp.ExtendedPlan)
			},
		},
		{
			name:           "multi mode rejected",
			body:           dto.PlanItemRequest{Mode: model.ModeMulti, Item: testutil.Carton(), Containers: testutil.Catalog()},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.Contains(t, resp.Details, "mode")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/plans/single", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestAllocate(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		detailField    string
		checkResponse  func(*testing.T, model.PlanResult)
	}{
		{
			name:           "splits over shipments",
			body:           dto.AllocateRequest{Item: testutil.Carton(), Quantity: 1500, Containers: testutil.Catalog()},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, result model.PlanResult) {
				assert.NotEmpty(t, result.PlanID)
				assert.Equal(t, model.ModeStandard, result.Mode)
				assert.Equal(t, 1500, result.Requested)
				assert.Equal(t, 1500, result.Shipped)
				assert.Equal(t, 0, result.Leftover)
				assert.Equal(t, []int{1000, 500}, quantities(result.Shipments))
				assert.Equal(t, []model.TabGroup{{ContainerID: 1, StartIndex: 0, EndIndex: 1, Count: 2}}, result.Groups)
			},
		},
		{
			name: "reports leftover",
			body: dto.AllocateRequest{
				Item:       model.Item{Width: 700, Depth: 700, Height: 700},
				Quantity:   9,
				Containers: testutil.Catalog(),
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, result model.PlanResult) {
				assert.Empty(t, result.Shipments)
				assert.Equal(t, 9, result.Leftover)
				assert.False(t, result.Complete())
			},
		},
		{
			name:           "malformed body",
			body:           `{"quantity": "many"}`,
			expectedStatus: http.StatusBadRequest,
			detailField:    "body",
		},
		{
			name: "negative width",
			body: dto.AllocateRequest{
				Item:       model.Item{Width: -1, Depth: 40, Height: 20},
				Quantity:   10,
				Containers: testutil.Catalog(),
			},
			expectedStatus: http.StatusBadRequest,
			detailField:    "width",
		},
		{
			name:           "negative quantity",
			body:           dto.AllocateRequest{Item: testutil.Carton(), Quantity: -4, Containers: testutil.Catalog()},
			expectedStatus: http.StatusBadRequest,
			detailField:    "quantity",
		},
		{
			name: "items belong on the multi endpoint",
			body: dto.AllocateRequest{
				Items:      mixedItems(),
				Containers: shelf(),
			},
			expectedStatus: http.StatusBadRequest,
			detailField:    "items",
		},
		{
			name:           "unknown mode",
			body:           dto.AllocateRequest{Mode: "greedy", Item: testutil.Carton(), Quantity: 1, Containers: testutil.Catalog()},
			expectedStatus: http.StatusBadRequest,
			detailField:    "mode",
		},
		{
			name:           "no containers and no catalog",
			body:           dto.AllocateRequest{Item: testutil.Carton(), Quantity: 10},
			expectedStatus: http.StatusBadRequest,
			detailField:    "containers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/plans/allocate", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.detailField != "" {
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.Contains(t, resp.Details, tt.detailField)
				return
			}
			tt.checkResponse(t, decodeData[model.PlanResult](t, w))
		})
	}
}

func TestAllocate_SameRequestSamePlanID(t *testing.T) {
	router := setupRouter(t)
	body := dto.AllocateRequest{Item: testutil.Carton(), Quantity: 250, Containers: testutil.Catalog()}

	first := decodeData[model.PlanResult](t, postJSON(t, router, "/api/plans/allocate", body))
	second := decodeData[model.PlanResult](t, postJSON(t, router, "/api/plans/allocate", body))

	assert.Equal(t, first.PlanID, second.PlanID)
	assert.Equal(t, quantities(first.Shipments), quantities(second.Shipments))
}

func TestAllocateMulti(t *testing.T) {
	router := setupRouter(t)

	t.Run("mixes item types", func(t *testing.T) {
		w := postJSON(t, router, "/api/plans/multi", dto.MultiAllocateRequest{
			Items:      mixedItems(),
			Containers: shelf(),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decodeData[model.PlanResult](t, w)
		assert.Equal(t, model.ModeMulti, result.Mode)
		assert.Equal(t, 5, result.Requested)
		assert.Equal(t, 5, result.Shipped)
		assert.Equal(t, []int{0, 0}, result.LeftoverByItem)
		require.Len(t, result.Shipments, 2)
		assert.Equal(t, []int{1, 2}, result.Shipments[0].ItemQuantities)
		assert.Equal(t, model.LayoutExtended, result.Shipments[0].Layout.Kind())
	})

	t.Run("empty items", func(t *testing.T) {
		w := postJSON(t, router, "/api/plans/multi", `{"items": [], "containers": [{"id": 1, "inner_width": 10, "inner_depth": 10, "inner_height": 10}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidRequest, decodeError(t, w).Error)
	})
}

func TestBatchAllocate(t *testing.T) {
	router := setupRouter(t)

	t.Run("plans every entry", func(t *testing.T) {
		w := postJSON(t, router, "/api/plans/batch", dto.BatchAllocateRequest{
			Requests: []dto.AllocateRequest{
				{Item: testutil.Carton(), Quantity: 1500, Containers: testutil.Catalog()},
				{Item: testutil.Carton(), Quantity: -4, Containers: testutil.Catalog()},
				{Item: testutil.Carton(), Quantity: 250, Containers: testutil.Catalog()},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeData[dto.BatchAllocateResponse](t, w)
		require.Len(t, resp.Entries, 3)
		assert.Equal(t, 1, resp.Failed)
		for i, e := range resp.Entries {
			assert.Equal(t, i, e.Index)
		}
		require.NotNil(t, resp.Entries[0].Result)
		assert.Equal(t, 1500, resp.Entries[0].Result.Shipped)
		assert.Nil(t, resp.Entries[1].Result)
		assert.Contains(t, resp.Entries[1].Error, "quantity")
		require.NotNil(t, resp.Entries[2].Result)
		assert.Equal(t, []int{250}, quantities(resp.Entries[2].Result.Shipments))
	})

	t.Run("too many requests", func(t *testing.T) {
		reqs := make([]dto.AllocateRequest, dto.MaxBatchSize+1)
		for i := range reqs {
			reqs[i] = dto.AllocateRequest{Item: testutil.Carton(), Quantity: 1, Containers: testutil.Catalog()}
		}
		w := postJSON(t, router, "/api/plans/batch", dto.BatchAllocateRequest{Requests: reqs})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "requests")
	})

	t.Run("entry rejected before planning", func(t *testing.T) {
		w := postJSON(t, router, "/api/plans/batch", dto.BatchAllocateRequest{
			Requests: []dto.AllocateRequest{
				{Item: testutil.Carton(), Quantity: 1, Containers: testutil.Catalog()},
				{Items: mixedItems(), Containers: shelf()},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "requests[1].items")
	})
}

func TestProject(t *testing.T) {
	router := setupRouter(t)
	base := model.PlanRequest{Item: testutil.Carton(), Quantity: 1500, Containers: testutil.Catalog()}

	t.Run("second shipment", func(t *testing.T) {
		w := postJSON(t, router, "/api/plans/project", dto.ProjectRequest{PlanRequest: base, ShipmentIndex: 1})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		projection := decodeData[model.Projection](t, w)
		assert.NotEmpty(t, projection.PlanID)
		assert.Equal(t, 1, projection.ShipmentIndex)
		assert.Equal(t, 500, projection.Shipment.Quantity)
		assert.Len(t, projection.Positions, 500)
		assert.Len(t, projection.Groups, 1)
	})

	for _, index := range []int{2, -1} {
		t.Run(fmt.Sprintf("index %d out of range", index), func(t *testing.T) {
			w := postJSON(t, router, "/api/plans/project", dto.ProjectRequest{PlanRequest: base, ShipmentIndex: index})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Contains(t, resp.Details, "shipment_index")
		})
	}
}

func TestExport(t *testing.T) {
	router := setupRouter(t)
	single := dto.ExportRequest{
		PlanRequest: model.PlanRequest{Item: testutil.Carton(), Quantity: 1500, Containers: testutil.Catalog()},
		Reference:   "PO-42",
	}
	multi := dto.ExportRequest{
		PlanRequest: model.PlanRequest{Items: mixedItems(), Containers: shelf()},
	}

	tests := []struct {
		name        string
		format      string
		body        interface{}
		contentType string
		ext         string
		check       func(*testing.T, []byte)
	}{
		{
			name:        "csv",
			format:      "csv",
			body:        single,
			contentType: "text/csv",
			ext:         ".csv",
			check: func(t *testing.T, body []byte) {
				lines := strings.Split(strings.TrimSpace(string(body)), "\n")
				require.Len(t, lines, 3)
				assert.True(t, strings.HasPrefix(lines[0], "Shipment,Container ID"))
			},
		},
		{
			name:        "xlsx upper case",
			format:      "XLSX",
			body:        single,
			contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			ext:         ".xlsx",
			check: func(t *testing.T, body []byte) {
				assert.True(t, bytes.HasPrefix(body, []byte("PK")))
			},
		},
		{
			name:        "pdf of a multi item plan",
			format:      "pdf",
			body:        multi,
			contentType: "application/pdf",
			ext:         ".pdf",
			check: func(t *testing.T, body []byte) {
				assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/plans/export?format="+tt.format, tt.body)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			disposition := w.Header().Get("Content-Disposition")
			assert.Contains(t, disposition, "attachment")
			assert.Contains(t, disposition, "loadplan-")
			assert.Contains(t, disposition, tt.ext)
			tt.check(t, w.Body.Bytes())
		})
	}
}

func TestExport_Rejected(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name        string
		path        string
		body        interface{}
		detailField string
	}{
		{
			name:        "unsupported format",
			path:        "/api/plans/export?format=docx",
			body:        dto.ExportRequest{PlanRequest: model.PlanRequest{Item: testutil.Carton(), Quantity: 1, Containers: testutil.Catalog()}},
			detailField: "format",
		},
		{
			name:        "missing format",
			path:        "/api/plans/export",
			body:        dto.ExportRequest{PlanRequest: model.PlanRequest{Item: testutil.Carton(), Quantity: 1, Containers: testutil.Catalog()}},
			detailField: "format",
		},
		{
			name: "reference too long",
			path: "/api/plans/export?format=csv",
			body: dto.ExportRequest{
				PlanRequest: model.PlanRequest{Item: testutil.Carton(), Quantity: 1, Containers: testutil.Catalog()},
				Reference:   strings.Repeat("x", dto.MaxReferenceLength+1),
			},
			detailField: "reference",
		},
		{
			name:        "invalid item",
			path:        "/api/plans/export?format=pdf",
			body:        dto.ExportRequest{PlanRequest: model.PlanRequest{Item: model.Item{Width: 1}, Quantity: 1, Containers: testutil.Catalog()}},
			detailField: "depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
			assert.Contains(t, resp.Details, tt.detailField)
		})
	}
}

func TestHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "unknown catalog reference",
			err:            fmt.Errorf("container 9: %w", repository.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "catalog not configured",
			err:            service.ErrCatalogDisabled,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeUnavailable,
		},
		{
			name:           "breaker open",
			err:            fmt.Errorf("resolve containers: %w", circuitbreaker.ErrCircuitOpen),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeUnavailable,
		},
		{
			name:           "deadline exceeded",
			err:            context.DeadlineExceeded,
			expectedStatus: http.StatusGatewayTimeout,
			expectedCode:   dto.ErrCodeTimeout,
		},
		{
			name:           "unexpected",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, planner := setupRouterWithMock(t)
			planner.On("Allocate", mock.Anything, mock.Anything).Return(model.PlanResult{}, tt.err).Once()

			w := postJSON(t, router, "/api/plans/allocate", dto.AllocateRequest{
				Item:         model.Item{SKU: "CARTON-60"},
				Quantity:     10,
				ContainerIDs: []int{9},
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
			assert.Empty(t, resp.Details)
		})
	}
}

func TestHandler_PassesRequestToPlanner(t *testing.T) {
	router, planner := setupRouterWithMock(t)

	expected := model.PlanResult{PlanID: "plan-1", Mode: model.ModeExtended, Requested: 42, Shipped: 42}
	planner.On("Allocate", mock.Anything, mock.MatchedBy(func(req model.PlanRequest) bool {
		return req.Mode == model.ModeExtended &&
			req.Item.SKU == "CARTON-60" &&
			req.Quantity == 42 &&
			assert.ObjectsAreEqual([]int{1, 2}, req.ContainerIDs) &&
			req.Options.ContainerPadding == 5
	})).Return(expected, nil).Once()

	w := postJSON(t, router, "/api/plans/allocate", `{
		"mode": "extended",
		"item": {"sku": "CARTON-60"},
		"quantity": 42,
		"container_ids": [1, 2],
		"options": {"container_padding": 5}
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData[model.PlanResult](t, w)
	assert.Equal(t, "plan-1", result.PlanID)
	assert.Equal(t, 42, result.Shipped)
}

func TestHandler_ExportMultiUsesMultiPlanner(t *testing.T) {
	router, planner := setupRouterWithMock(t)
	planner.On("AllocateMulti", mock.Anything, mock.MatchedBy(func(req model.PlanRequest) bool {
		return len(req.Items) == 2
	})).Return(model.PlanResult{PlanID: "abcdef0123456789", Mode: model.ModeMulti, Requested: 5, Leftover: 5}, nil).Once()

	w := postJSON(t, router, "/api/plans/export?format=csv", dto.ExportRequest{
		PlanRequest: model.PlanRequest{Items: mixedItems(), ContainerIDs: []int{1}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="loadplan-abcdef01.csv"`)
	planner.AssertNotCalled(t, "Allocate", mock.Anything, mock.Anything)
}

func TestHandler_AuditsAllocations(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	entries := make(chan *model.LogEntry, 1)
	ls.On("CreateLog", mock.Anything, mock.AnythingOfType("*model.LogEntry")).
		Run(func(args mock.Arguments) {
			entries <- args.Get(1).(*model.LogEntry)
		}).
		Return(nil).Once()

	router, planner := setupRouterWithMock(t, WithAuditLogging(ls))
	planner.On("Allocate", mock.Anything, mock.Anything).
		Return(model.PlanResult{PlanID: "plan-7", Mode: model.ModeStandard, Requested: 10, Shipped: 10, Shipments: []model.Shipment{{Quantity: 10}}}, nil).
		Once()

	w := postJSON(t, router, "/api/plans/allocate", dto.AllocateRequest{Item: testutil.Carton(), Quantity: 10, Containers: testutil.Catalog()})
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case entry := <-entries:
		assert.Equal(t, model.ActionPlanAllocate, entry.ActionType)
		assert.Equal(t, "info", entry.Level)
		assert.Equal(t, "/api/plans/allocate", entry.Path)
		assert.NotEmpty(t, entry.RequestID)
		assert.Equal(t, "plan-7", entry.Fields["plan_id"])
		assert.Equal(t, 1, entry.Fields["shipments"])
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was not stored")
	}
}
