package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/metrics"
	"github.com/guttosm/loadplan-service/internal/middleware"
	"github.com/guttosm/loadplan-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	// APIKeys maps accepted keys to the label recorded as caller
	APIKeys map[string]string
	// TokenValidator accepts bearer tokens when set
	TokenValidator    *middleware.TokenValidator
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	LoggingService    service.LoggingService
	// Catalog routes are registered only when both catalogs are set
	Containers service.ContainerCatalog
	Items      service.ItemCatalog
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		RequestTimeout: 30 * time.Second,
		EnableAuth:     false,
	}
}

func (cfg *RouterConfig) authEnabled() bool {
	return cfg.EnableAuth && (len(cfg.APIKeys) > 0 || cfg.TokenValidator != nil)
}

// NewRouter creates and configures the Gin router for the load planning service.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	limiter := configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)
	if limiter != nil && healthHandler != nil {
		healthHandler.RegisterInfo("rate_limit", func() any { return limiter.Stats() })
	}

	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	groups := []RouteGroup{}
	if handler != nil {
		groups = append(groups, NewPlanRoutes(handler))
	}
	if cfg.Containers != nil && cfg.Items != nil {
		groups = append(groups, NewCatalogRoutes(NewCatalogHandler(cfg.Containers, cfg.Items, cfg.LoggingService)))
	}
	for _, g := range groups {
		g.RegisterRoutes(api, &cfg)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes and
// returns the per address limiter, if any.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) *middleware.RateLimiter {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	)

	if cfg.RateLimit <= 0 {
		return nil
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	router.Use(limiter.RateLimit())
	return limiter
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up authentication, per caller limits,
// idempotency and the request timeout for the API group.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.authEnabled() {
		api.Use(authenticate(cfg))
		if cfg.RateLimit > 0 {
			api.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).SubjectRateLimit())
		}
	}

	if cfg.EnableIdempotency {
		api.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}

	if cfg.RequestTimeout > 0 {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
	}
}

// authenticate accepts bearer tokens and API keys. A request carrying an
// Authorization header is judged by the token validator alone.
func authenticate(cfg *RouterConfig) gin.HandlerFunc {
	apiKeyAuth := middleware.APIKeyAuth(cfg.APIKeys)
	if cfg.TokenValidator == nil {
		return apiKeyAuth
	}
	jwtAuth := middleware.JWTAuth(cfg.TokenValidator)
	if len(cfg.APIKeys) == 0 {
		return jwtAuth
	}
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			jwtAuth(c)
			return
		}
		apiKeyAuth(c)
	}
}
