package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/loadplan-service/internal/circuitbreaker"
)

// Readiness states reported by /readyz.
const (
	ReadinessOK          = "ok"
	ReadinessDegraded    = "degraded"
	ReadinessUnavailable = "unavailable"
)

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check() error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func() error

// Check implements HealthChecker.
func (f HealthCheckFunc) Check() error { return f() }

type registeredCheck struct {
	checker  HealthChecker
	optional bool
}

// CheckOption configures a registered checker.
type CheckOption func(*registeredCheck)

// Optional marks a dependency whose failure degrades the service without
// taking it out of rotation. Inline plan requests need no catalog, so the
// catalog store is optional.
func Optional() CheckOption {
	return func(r *registeredCheck) { r.optional = true }
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checkers        map[string]registeredCheck
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	info            map[string]func() any
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]registeredCheck),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		info:            make(map[string]func() any),
	}
}

// RegisterChecker registers a dependency probed by the readiness endpoint.
// A failing dependency makes the service unavailable unless it is Optional.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker, opts ...CheckOption) {
	r := registeredCheck{checker: checker}
	for _, opt := range opts {
		opt(&r)
	}
	h.checkers[name] = r
}

// RegisterCircuitBreaker reports a breaker state. An open breaker degrades
// the service; requests that avoid the guarded store keep working.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// RegisterInfo adds a value computed on each readiness probe, such as cache
// or audit writer counters. Info never changes the status.
func (h *HealthHandler) RegisterInfo(name string, fn func() any) {
	h.info[name] = fn
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the service is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": ReadinessOK})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Reports dependency checks and circuit breaker states. Optional dependencies degrade the service; only required ones return 503.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready or degraded"
// @Failure     503 {object} map[string]interface{} "A required dependency is unavailable"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	state := ReadinessOK
	checks := make(map[string]interface{})

	degrade := func() {
		if state == ReadinessOK {
			state = ReadinessDegraded
		}
	}

	for name, r := range h.checkers {
		err := r.checker.Check()
		switch {
		case err == nil:
			checks[name] = "ok"
		case r.optional:
			checks[name] = err.Error()
			degrade()
		default:
			checks[name] = err.Error()
			state = ReadinessUnavailable
		}
	}

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			degrade()
		}
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	body := gin.H{"status": state, "checks": checks}
	if len(h.info) > 0 {
		info := make(map[string]any, len(h.info))
		for name, fn := range h.info {
			info[name] = fn()
		}
		body["info"] = info
	}

	status := http.StatusOK
	if state == ReadinessUnavailable {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}
