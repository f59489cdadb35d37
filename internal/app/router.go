// Package app provides router configuration.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/http"
	"github.com/guttosm/loadplan-service/internal/middleware"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/guttosm/loadplan-service/internal/service/cache"
)

type cacheReporter interface {
	CacheMetrics() (cache.Metrics, bool)
}

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	planner service.PlanningService,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) (*RouterComponents, error) {
	var loggingService service.LoggingService
	var handlerOpts []http.HandlerOption
	if dbComponents != nil && dbComponents.LoggingService != nil {
		loggingService = dbComponents.LoggingService
		handlerOpts = append(handlerOpts, http.WithAuditLogging(loggingService))
	}

	handler := http.NewHandler(planner, handlerOpts...)
	healthHandler := http.NewHealthHandler()

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		LoggingService:    loggingService,
	}

	if cfg.Auth.JWTSecretKey != "" {
		validator, err := middleware.NewTokenValidator(cfg.Auth.JWTSecretKey, cfg.Auth.JWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("create token validator: %w", err)
		}
		routerCfg.TokenValidator = validator
	}

	if dbComponents != nil {
		routerCfg.Containers = dbComponents.Containers
		routerCfg.Items = dbComponents.Items
		for name, cb := range dbComponents.CircuitBreakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
		if dbComponents.DB != nil {
			healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(dbComponents.HealthCheck), http.Optional())
		}
		healthHandler.RegisterInfo("audit_log", func() any {
			if al := middleware.GetAsyncLogger(); al != nil {
				return al.Stats()
			}
			return nil
		})
	}
	if reporter, ok := planner.(cacheReporter); ok {
		healthHandler.RegisterInfo("plan_cache", func() any {
			m, enabled := reporter.CacheMetrics()
			if !enabled {
				return gin.H{"enabled": false}
			}
			return gin.H{
				"enabled":   true,
				"size":      m.Size,
				"capacity":  m.Capacity,
				"hit_ratio": m.HitRatio(),
			}
		})
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}, nil
}
