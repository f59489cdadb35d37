package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group. Scope checks
	// are attached only when cfg enables authentication.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// guard returns the scope check for a route, or nothing when authentication is off.
func guard(cfg *RouterConfig, scope string) []gin.HandlerFunc {
	if cfg == nil || !cfg.authEnabled() {
		return nil
	}
	return []gin.HandlerFunc{middleware.RequireScope(scope)}
}

func withGuard(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, guards...), h)
}
