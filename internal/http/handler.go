package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/export"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"github.com/guttosm/loadplan-service/internal/metrics"
	"github.com/guttosm/loadplan-service/internal/middleware"
	"github.com/guttosm/loadplan-service/internal/service"
)

// Handler provides HTTP handlers for the planning routes.
type Handler struct {
	planner        service.PlanningService
	loggingService service.LoggingService
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAuditLogging stores an audit entry for every planning call.
func WithAuditLogging(ls service.LoggingService) HandlerOption {
	return func(h *Handler) {
		h.loggingService = ls
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(planner service.PlanningService, opts ...HandlerOption) *Handler {
	h := &Handler{planner: planner}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// decode binds the JSON body into req and validates it. It writes the error
// response and returns false on failure.
func decode(c *gin.Context, builder *ResponseBuilder, req Validator) bool {
	if err := NewRequestBuilder(c).Bind(req); err != nil {
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err,
			map[string]string{"body": err.Error()})
		return false
	}
	if err := req.Validate(); err != nil {
		builder.ErrorFrom(err)
		return false
	}
	return true
}

func (h *Handler) audit(c *gin.Context, action, message string, err error, fields map[string]interface{}) {
	if h.loggingService == nil {
		return
	}
	if err != nil {
		middleware.AuditLogError(h.loggingService, c, action, message, err, fields)
		return
	}
	middleware.AuditLog(h.loggingService, c, action, message, fields)
}

// PlanItem handles POST /api/plans/single requests.
//
// @Summary      Best plan for one item
// @Description  Returns the best single container layout for one item over the given containers or the container catalog. Standard mode fills one orientation grid, extended mode builds layers of mixed orientations. feasible is false when no container holds a single unit.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        request body dto.PlanItemRequest true "Item and candidate containers"
// @Success      200 {object} dto.SuccessResponse{data=dto.PlanItemResponse} "Best plan"
// @Failure      400 {object} dto.ErrorResponse "Invalid planning input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Missing plans:write scope"
// @Failure      404 {object} dto.ErrorResponse "Unknown catalog reference"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/plans/single [post]
func (h *Handler) PlanItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.PlanItemRequest
	if !decode(c, builder, &req) {
		return
	}

	layout, err := h.planner.PlanItem(c.Request.Context(), req.ToModel())
	if err != nil {
		builder.ErrorFrom(err)
		return
	}

	resp := dto.NewPlanItemResponse(layout)
	h.audit(c, model.ActionPlanSingle, "Single item plan computed", nil, map[string]interface{}{
		"feasible": resp.Feasible,
		"kind":     string(resp.Kind),
	})
	builder.SuccessOK(resp)
}

// Allocate handles POST /api/plans/allocate requests.
//
// @Summary      Allocate a quantity of one item
// @Description  Distributes the requested units over as few shipments as possible, preferring containers that take the whole remainder. Units no container can take are reported as leftover. Supports idempotency via Idempotency-Key header.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.AllocateRequest true "Item, quantity and containers"
// @Success      200 {object} dto.SuccessResponse{data=model.PlanResult} "Allocation"
// @Failure      400 {object} dto.ErrorResponse "Invalid planning input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Missing plans:write scope"
// @Failure      404 {object} dto.ErrorResponse "Unknown catalog reference"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/plans/allocate [post]
func (h *Handler) Allocate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.AllocateRequest
	if !decode(c, builder, &req) {
		return
	}

	result, err := h.planner.Allocate(c.Request.Context(), req.ToModel())
	if err != nil {
		h.audit(c, model.ActionPlanAllocate, "Allocation failed", err, nil)
		builder.ErrorFrom(err)
		return
	}

	h.audit(c, model.ActionPlanAllocate, "Allocation planned", nil, model.PlanFields(result))
	builder.SuccessOK(result)
}

// AllocateMulti handles POST /api/plans/multi requests.
//
// @Summary      Allocate several item types
// @Description  Packs several item types together, shelf by shelf and layer by layer, into mixed shipments. leftover_by_item is indexed like the request items.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.MultiAllocateRequest true "Items with quantities and containers"
// @Success      200 {object} dto.SuccessResponse{data=model.PlanResult} "Allocation"
// @Failure      400 {object} dto.ErrorResponse "Invalid planning input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Missing plans:write scope"
// @Failure      404 {object} dto.ErrorResponse "Unknown catalog reference"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/plans/multi [post]
func (h *Handler) AllocateMulti(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.MultiAllocateRequest
	if !decode(c, builder, &req) {
		return
	}

	result, err := h.planner.AllocateMulti(c.Request.Context(), req.ToModel())
	if err != nil {
		h.audit(c, model.ActionPlanMulti, "Multi item allocation failed", err, nil)
		builder.ErrorFrom(err)
		return
	}

	h.audit(c, model.ActionPlanMulti, "Multi item allocation planned", nil, model.PlanFields(result))
	builder.SuccessOK(result)
}

// BatchAllocate handles POST /api/plans/batch requests.
//
// @Summary      Allocate several requests at once
// @Description  Plans up to 100 independent single item allocations in parallel. A rejected entry carries its error; the other entries are still planned.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        request body dto.BatchAllocateRequest true "Allocation requests"
// @Success      200 {object} dto.SuccessResponse{data=dto.BatchAllocateResponse} "Per request outcome"
// @Failure      400 {object} dto.ErrorResponse "Invalid batch"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Missing plans:write scope"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/plans/batch [post]
func (h *Handler) BatchAllocate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.BatchAllocateRequest
	if !decode(c, builder, &req) {
		return
	}

	entries, err := h.planner.BatchAllocate(c.Request.Context(), req.ToModel())
	if err != nil {
		h.audit(c, model.ActionPlanBatch, "Batch allocation failed", err, nil)
		builder.ErrorFrom(err)
		return
	}

	resp := dto.NewBatchAllocateResponse(entries)
	h.audit(c, model.ActionPlanBatch, "Batch allocation planned", nil, map[string]interface{}{
		"requests": len(entries),
		"failed":   resp.Failed,
	})
	builder.SuccessOK(resp)
}

// Project handles POST /api/plans/project requests.
//
// @Summary      Unit positions of one shipment
// @Description  Allocates the request and returns the absolute position of every unit of the selected shipment, together with the container tab groups of the whole allocation.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        request body dto.ProjectRequest true "Allocation request and shipment index"
// @Success      200 {object} dto.SuccessResponse{data=model.Projection} "Projected shipment"
// @Failure      400 {object} dto.ErrorResponse "Invalid planning input or shipment index"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Missing plans:write scope"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/plans/project [post]
func (h *Handler) Project(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.ProjectRequest
	if !decode(c, builder, &req) {
		return
	}

	projection, err := h.planner.Project(c.Request.Context(), req.PlanRequest, req.ShipmentIndex)
	if err != nil {
		builder.ErrorFrom(err)
		return
	}

	h.audit(c, model.ActionPlanProject, "Shipment projected", nil, map[string]interface{}{
		"plan_id":        projection.PlanID,
		"shipment_index": projection.ShipmentIndex,
		"positions":      len(projection.Positions),
	})
	builder.SuccessOK(projection)
}

// Export handles POST /api/plans/export requests.
//
// @Summary      Export an allocation
// @Description  Allocates the request and renders the shipments as a CSV table, an XLSX workbook or a PDF with one QR coded label per shipment.
// @Tags         Plans
// @Accept       json
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        format query string true "Export format" Enums(csv, xlsx, pdf)
// @Param        request body dto.ExportRequest true "Allocation request"
// @Success      200 {file} file "Export document"
// @Failure      400 {object} dto.ErrorResponse "Invalid planning input or format"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Missing plans:write scope"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/plans/export [post]
func (h *Handler) Export(c *gin.Context) {
	builder := NewResponseBuilder(c)

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		metrics.RecordExport("unknown", "invalid")
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyExportFormat, err,
			map[string]string{"format": "must be one of csv, xlsx, pdf"})
		return
	}

	var req dto.ExportRequest
	if !decode(c, builder, &req) {
		metrics.RecordExport(string(format), "invalid")
		return
	}

	allocate := h.planner.Allocate
	if req.EffectiveMode() == model.ModeMulti {
		allocate = h.planner.AllocateMulti
	}
	result, err := allocate(c.Request.Context(), req.PlanRequest)
	if err != nil {
		metrics.RecordExport(string(format), "invalid")
		builder.ErrorFrom(err)
		return
	}

	doc := export.Document{
		Reference:   req.Reference,
		Result:      result,
		Items:       req.ItemList(),
		GeneratedAt: time.Now().UTC(),
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, doc); err != nil {
		metrics.RecordExport(string(format), "error")
		h.audit(c, model.ActionPlanExport, "Export failed", err, nil)
		builder.ErrorFrom(fmt.Errorf("export %s: %w", format, err))
		return
	}

	metrics.RecordExport(string(format), "success")
	fields := model.PlanFields(result)
	fields["format"] = string(format)
	h.audit(c, model.ActionPlanExport, "Allocation exported", nil, fields)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(result.PlanID)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
