package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"github.com/guttosm/loadplan-service/internal/middleware"
	"github.com/guttosm/loadplan-service/internal/service"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// CatalogHandler provides HTTP handlers for the container and item catalogs.
type CatalogHandler struct {
	containers     service.ContainerCatalog
	items          service.ItemCatalog
	loggingService service.LoggingService
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(containers service.ContainerCatalog, items service.ItemCatalog, loggingService service.LoggingService) *CatalogHandler {
	return &CatalogHandler{
		containers:     containers,
		items:          items,
		loggingService: loggingService,
	}
}

func (h *CatalogHandler) audit(c *gin.Context, message string, fields map[string]interface{}) {
	if h.loggingService != nil {
		middleware.AuditLog(h.loggingService, c, model.ActionCatalogChange, message, fields)
	}
}

// parseLimit reads the limit query parameter, clamped to [1, maxListLimit].
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		NewResponseBuilder(c).ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err,
			map[string]string{"limit": "must be a positive integer"})
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}

func parseContainerID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		NewResponseBuilder(c).ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err,
			map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// ListContainers handles GET /api/containers requests.
//
// @Summary      List container types
// @Description  Returns the container catalog ordered by id
// @Tags         Catalog
// @Produce      json
// @Param        limit query int false "Maximum number of results (default 100, max 1000)"
// @Success      200 {object} dto.SuccessResponse "Container types"
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/containers [get]
func (h *CatalogHandler) ListContainers(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	builder := NewResponseBuilder(c)

	docs, err := h.containers.List(c.Request.Context(), limit)
	if err != nil {
		builder.ErrorFrom(err)
		return
	}
	builder.SuccessOK(dto.NewListResponse(docs))
}

// GetContainer handles GET /api/containers/:id requests.
//
// @Summary      Get a container type
// @Tags         Catalog
// @Produce      json
// @Param        id path int true "Container id"
// @Success      200 {object} dto.SuccessResponse "Container type"
// @Failure      400 {object} dto.ErrorResponse "Invalid id"
// @Failure      404 {object} dto.ErrorResponse "Unknown container"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/containers/{id} [get]
func (h *CatalogHandler) GetContainer(c *gin.Context) {
	id, ok := parseContainerID(c)
	if !ok {
		return
	}
	builder := NewResponseBuilder(c)

	doc, err := h.containers.Get(c.Request.Context(), id)
	if err != nil {
		builder.ErrorFrom(err)
		return
	}
	builder.SuccessOK(doc)
}

// CreateContainer handles POST /api/containers requests.
//
// @Summary      Create a container type
// @Description  Adds a container type to the catalog. Planning results cached before the change are dropped. Supports idempotency via Idempotency-Key header.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body model.Container true "Container type"
// @Success      201 {object} dto.SuccessResponse "Created container type"
// @Failure      400 {object} dto.ErrorResponse "Invalid container"
// @Failure      403 {object} dto.ErrorResponse "Missing catalog:write scope"
// @Failure      409 {object} dto.ErrorResponse "Container id already exists"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/containers [post]
func (h *CatalogHandler) CreateContainer(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req model.Container
	if err := NewRequestBuilder(c).Bind(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	doc, err := h.containers.Create(c.Request.Context(), req, middleware.GetSubject(c))
	if err != nil {
		builder.ErrorFrom(err)
		return
	}

	h.audit(c, "Container type created", map[string]interface{}{"container_id": doc.ID})
	builder.SuccessCreated(doc)
}

// UpdateContainer handles PUT /api/containers/:id requests.
//
// @Summary      Replace a container type
// @Description  Replaces the dimensions and weights of a stored container type. The id in the path wins over the body.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path int true "Container id"
// @Param        request body model.Container true "Container type"
// @Success      200 {object} dto.SuccessResponse "Updated container type"
// @Failure      400 {object} dto.ErrorResponse "Invalid container"
// @Failure      403 {object} dto.ErrorResponse "Missing catalog:write scope"
// @Failure      404 {object} dto.ErrorResponse "Unknown container"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/containers/{id} [put]
func (h *CatalogHandler) UpdateContainer(c *gin.Context) {
	id, ok := parseContainerID(c)
	if !ok {
		return
	}
	builder := NewResponseBuilder(c)

	var req model.Container
	if err := NewRequestBuilder(c).Bind(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	req.ID = id

	doc, err := h.containers.Update(c.Request.Context(), req, middleware.GetSubject(c))
	if err != nil {
		builder.ErrorFrom(err)
		return
	}

	h.audit(c, "Container type updated", map[string]interface{}{"container_id": id, "version": doc.Version})
	builder.SuccessOK(doc)
}

// DeleteContainer handles DELETE /api/containers/:id requests.
//
// @Summary      Delete a container type
// @Tags         Catalog
// @Param        id path int true "Container id"
// @Success      204 "Deleted"
// @Failure      403 {object} dto.ErrorResponse "Missing catalog:write scope"
// @Failure      404 {object} dto.ErrorResponse "Unknown container"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/containers/{id} [delete]
func (h *CatalogHandler) DeleteContainer(c *gin.Context) {
	id, ok := parseContainerID(c)
	if !ok {
		return
	}

	if err := h.containers.Delete(c.Request.Context(), id); err != nil {
		NewResponseBuilder(c).ErrorFrom(err)
		return
	}

	h.audit(c, "Container type deleted", map[string]interface{}{"container_id": id})
	c.Status(http.StatusNoContent)
}

// ListItems handles GET /api/items requests.
//
// @Summary      List item types
// @Description  Returns the item catalog ordered by SKU
// @Tags         Catalog
// @Produce      json
// @Param        limit query int false "Maximum number of results (default 100, max 1000)"
// @Success      200 {object} dto.SuccessResponse "Item types"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	builder := NewResponseBuilder(c)

	docs, err := h.items.List(c.Request.Context(), limit)
	if err != nil {
		builder.ErrorFrom(err)
		return
	}
	builder.SuccessOK(dto.NewListResponse(docs))
}

// GetItem handles GET /api/items/:sku requests.
//
// @Summary      Get an item type
// @Tags         Catalog
// @Produce      json
// @Param        sku path string true "Item SKU"
// @Success      200 {object} dto.SuccessResponse "Item type"
// @Failure      404 {object} dto.ErrorResponse "Unknown item"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/items/{sku} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	doc, err := h.items.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		builder.ErrorFrom(err)
		return
	}
	builder.SuccessOK(doc)
}

// PutItem handles PUT /api/items/:sku requests.
//
// @Summary      Create or replace an item type
// @Description  Stores an item type under the SKU of the path. Responds 201 when the SKU was new.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        sku path string true "Item SKU"
// @Param        request body model.Item true "Item type"
// @Success      200 {object} dto.SuccessResponse "Replaced item type"
// @Success      201 {object} dto.SuccessResponse "Created item type"
// @Failure      400 {object} dto.ErrorResponse "Invalid item"
// @Failure      403 {object} dto.ErrorResponse "Missing catalog:write scope"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/items/{sku} [put]
func (h *CatalogHandler) PutItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req model.Item
	if err := NewRequestBuilder(c).Bind(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	req.SKU = c.Param("sku")

	doc, created, err := h.items.Put(c.Request.Context(), req, middleware.GetSubject(c))
	if err != nil {
		builder.ErrorFrom(err)
		return
	}

	h.audit(c, "Item type stored", map[string]interface{}{"sku": req.SKU, "created": created})
	if created {
		builder.SuccessCreated(doc)
		return
	}
	builder.SuccessOK(doc)
}

// DeleteItem handles DELETE /api/items/:sku requests.
//
// @Summary      Delete an item type
// @Tags         Catalog
// @Param        sku path string true "Item SKU"
// @Success      204 "Deleted"
// @Failure      403 {object} dto.ErrorResponse "Missing catalog:write scope"
// @Failure      404 {object} dto.ErrorResponse "Unknown item"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/items/{sku} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	sku := c.Param("sku")
	if err := h.items.Delete(c.Request.Context(), sku); err != nil {
		NewResponseBuilder(c).ErrorFrom(err)
		return
	}

	h.audit(c, "Item type deleted", map[string]interface{}{"sku": sku})
	c.Status(http.StatusNoContent)
}
