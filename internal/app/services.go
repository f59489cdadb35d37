// Package app provides service initialization.
package app

import (
	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/guttosm/loadplan-service/internal/telemetry"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Planner *service.PlanningServiceImpl
}

// InitializeServices initializes the planning service. Catalogs are attached
// when the database components are available.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	opts := []service.Option{
		service.WithDefaultPadding(cfg.Planning.ContainerPadding),
		service.WithLimits(cfg.Planning.MaxQuantity, cfg.Planning.MaxShipments),
		service.WithBatchConcurrency(cfg.Planning.BatchConcurrency),
		service.WithTracer(telemetry.Tracer("github.com/guttosm/loadplan-service/internal/service")),
	}

	if cfg.Cache.Size > 0 {
		opts = append(opts, service.WithCache(cfg.Cache.Size, cfg.Cache.TTL, cfg.Cache.Shards))
	}

	if db != nil && db.Containers != nil && db.Items != nil {
		opts = append(opts, service.WithCatalogs(db.Containers, db.Items))
	}

	return &ServiceComponents{
		Planner: service.NewPlanningService(opts...),
	}
}
