// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/http"
	"github.com/guttosm/loadplan-service/internal/telemetry"
	"github.com/rs/zerolog/log"
)

// App is the wired service: the router plus everything released on shutdown.
type App struct {
	Router  *gin.Engine
	closers []func(context.Context) error
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		Endpoint:       cfg.Tracing.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a := &App{closers: []func(context.Context) error{shutdownTracing}}

	// catalogs are built before the planner they invalidate
	var services *ServiceComponents
	dbComponents := InitializeDatabase(cfg.Database, func() {
		if services != nil {
			services.Planner.InvalidateCache()
		}
	})
	if dbComponents != nil {
		a.closers = append(a.closers, dbComponents.Close)
	}

	services = InitializeServices(cfg, dbComponents)
	a.closers = append(a.closers, func(context.Context) error {
		services.Planner.Close()
		return nil
	})

	if dbComponents != nil && cfg.Database.SeedFile != "" {
		if err := seedCatalog(ctx, cfg.Database.SeedFile, dbComponents.Containers, dbComponents.Items); err != nil {
			log.Warn().Err(err).Msg("Failed to seed catalog")
		}
	}

	routerComponents, err := InitializeRouter(services.Planner, dbComponents, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Router = http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)
	return a, nil
}

// Close releases resources in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
