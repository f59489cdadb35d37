package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUnavailable indicates a dependency that cannot serve the request right now.
	ErrCodeUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data (a PlanResult for the allocation endpoints)
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"Invalid planning input"`
	// Details maps the offending field to the reason it was rejected
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// WithDetail adds one field level detail to the error response.
func (e ErrorResponse) WithDetail(field, reason string) ErrorResponse {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[field] = reason
	return e
}

// PlanItemResponse carries the best single container plan of an item.
// Feasible is false when no container can hold a single unit.
//
// @Description Best plan of one item, standard or extended
type PlanItemResponse struct {
	Feasible     bool                `json:"feasible" example:"true"`
	Kind         model.LayoutKind    `json:"kind,omitempty" example:"standard"`
	Plan         *model.Plan         `json:"plan,omitempty"`
	ExtendedPlan *model.ExtendedPlan `json:"extended_plan,omitempty"`
} // @name PlanItemResponse

// NewPlanItemResponse wraps a layout for the API.
func NewPlanItemResponse(layout model.Layout) PlanItemResponse {
	resp := PlanItemResponse{}
	switch l := layout.(type) {
	case *model.Plan:
		resp.Feasible, resp.Kind, resp.Plan = true, l.Kind(), l
	case *model.ExtendedPlan:
		resp.Feasible, resp.Kind, resp.ExtendedPlan = true, l.Kind(), l
	}
	return resp
}

// BatchAllocateResponse lists the outcome of each batch request in request order.
//
// @Description Per request outcome of a batch allocation
type BatchAllocateResponse struct {
	Entries []model.BatchEntry `json:"entries"`
	// Failed counts entries that carry an error
	Failed int `json:"failed" example:"0"`
} // @name BatchAllocateResponse

// NewBatchAllocateResponse counts failed entries.
func NewBatchAllocateResponse(entries []model.BatchEntry) BatchAllocateResponse {
	resp := BatchAllocateResponse{Entries: entries}
	for _, e := range entries {
		if e.Error != "" {
			resp.Failed++
		}
	}
	return resp
}

// ListResponse wraps catalog listings.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse builds a listing, never with a nil slice.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}
