package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
)

// CatalogRoutes registers the container and item catalog endpoints.
// Reads are open to every authenticated caller, writes need catalog:write.
type CatalogRoutes struct {
	handler *CatalogHandler
}

// NewCatalogRoutes creates a new CatalogRoutes instance.
func NewCatalogRoutes(handler *CatalogHandler) *CatalogRoutes {
	return &CatalogRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *CatalogRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	write := guard(cfg, dto.ScopeCatalogWrite)

	containers := rg.Group("/containers")
	containers.GET("", r.handler.ListContainers)
	containers.GET("/:id", r.handler.GetContainer)
	containers.POST("", withGuard(write, r.handler.CreateContainer)...)
	containers.PUT("/:id", withGuard(write, r.handler.UpdateContainer)...)
	containers.DELETE("/:id", withGuard(write, r.handler.DeleteContainer)...)

	items := rg.Group("/items")
	items.GET("", r.handler.ListItems)
	items.GET("/:sku", r.handler.GetItem)
	items.PUT("/:sku", withGuard(write, r.handler.PutItem)...)
	items.DELETE("/:sku", withGuard(write, r.handler.DeleteItem)...)
}
