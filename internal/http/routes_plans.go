package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
)

// PlanRoutes registers the planning endpoints.
type PlanRoutes struct {
	handler *Handler
}

// NewPlanRoutes creates a new PlanRoutes instance.
func NewPlanRoutes(handler *Handler) *PlanRoutes {
	return &PlanRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *PlanRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	write := guard(cfg, dto.ScopePlansWrite)

	plans := rg.Group("/plans")
	plans.POST("/single", withGuard(write, r.handler.PlanItem)...)
	plans.POST("/allocate", withGuard(write, r.handler.Allocate)...)
	plans.POST("/multi", withGuard(write, r.handler.AllocateMulti)...)
	plans.POST("/batch", withGuard(write, r.handler.BatchAllocate)...)
	plans.POST("/project", withGuard(write, r.handler.Project)...)
	plans.POST("/export", withGuard(write, r.handler.Export)...)
}
