// Package app provides database initialization and setup.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/circuitbreaker"
	"github.com/guttosm/loadplan-service/internal/metrics"
	"github.com/guttosm/loadplan-service/internal/middleware"
	"github.com/guttosm/loadplan-service/internal/repository"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/rs/zerolog/log"
)

// Breaker names, also used as labels on /readyz and in metrics.
const (
	breakerContainers = "mongodb_containers"
	breakerItems      = "mongodb_items"
	breakerLogs       = "mongodb_logs"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB              *repository.MongoDB
	LoggingService  service.LoggingService
	Containers      service.ContainerCatalog
	Items           service.ItemCatalog
	CircuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the catalogs and the audit
// log service. onCatalogChange runs after every catalog write.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig, onCatalogChange func()) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	breakers := map[string]*circuitbreaker.CircuitBreaker{
		breakerContainers: newCircuitBreaker(cfg, breakerContainers),
		breakerItems:      newCircuitBreaker(cfg, breakerItems),
		breakerLogs:       newCircuitBreaker(cfg, breakerLogs),
	}

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breakers[breakerLogs])
	loggingService := service.NewLoggingService(logsRepo)
	middleware.InitAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig())

	containerRepo := repository.NewContainerRepositoryWithCircuitBreaker(repository.NewContainerRepository(db), breakers[breakerContainers])
	itemRepo := repository.NewItemRepositoryWithCircuitBreaker(repository.NewItemRepository(db), breakers[breakerItems])

	var catalogOpts []service.CatalogOption
	if onCatalogChange != nil {
		catalogOpts = append(catalogOpts, service.WithChangeHook(onCatalogChange))
	}

	return &DatabaseComponents{
		DB:              db,
		LoggingService:  loggingService,
		Containers:      service.NewContainerCatalogService(containerRepo, catalogOpts...),
		Items:           service.NewItemCatalogService(itemRepo, catalogOpts...),
		CircuitBreakers: breakers,
	}
}

// Close stops the audit log workers and disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	middleware.StopAsyncLogger()
	if d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}

// HealthCheck pings MongoDB for the readiness probe.
func (d *DatabaseComponents) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.DB.HealthCheck(ctx)
}

// newCircuitBreaker builds a breaker from the database thresholds that
// publishes its state to Prometheus.
func newCircuitBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, state circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(state))
		},
	})
}

// seedCatalog loads the seed file into the catalogs. Existing containers are kept.
func seedCatalog(ctx context.Context, path string, containers service.ContainerCatalog, items service.ItemCatalog) error {
	seed, err := service.LoadCatalogSeed(path)
	if err != nil {
		return err
	}

	addedContainers, addedItems, err := seed.Apply(ctx, containers, items)
	if err != nil {
		return fmt.Errorf("apply catalog seed: %w", err)
	}

	log.Info().
		Str("file", path).
		Int("containers", addedContainers).
		Int("items", addedItems).
		Msg("Catalog seeded")
	return nil
}
