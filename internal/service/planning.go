package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/engine"
	"github.com/guttosm/loadplan-service/internal/logger"
	"github.com/guttosm/loadplan-service/internal/metrics"
	"github.com/guttosm/loadplan-service/internal/repository"
	"github.com/guttosm/loadplan-service/internal/service/cache"
)

const (
	// DefaultMaxQuantity bounds the units of one request.
	DefaultMaxQuantity = 1_000_000
	// DefaultMaxShipments bounds the shipments of one result.
	DefaultMaxShipments = 10_000
	// DefaultBatchConcurrency is the number of batch requests planned at once.
	DefaultBatchConcurrency = 4
)

// planNamespace derives stable plan ids from request fingerprints.
var planNamespace = uuid.MustParse("6f1d8c55-2a7e-4b59-9a3c-0e5b7c1d2f48")

// PlanningService runs the load planning engine behind request limits, caching,
// metrics and tracing.
type PlanningService interface {
	// PlanItem returns the best single container layout for one item, or nil when nothing fits.
	PlanItem(ctx context.Context, req model.PlanRequest) (model.Layout, error)
	// Allocate distributes the requested units over shipments.
	Allocate(ctx context.Context, req model.PlanRequest) (model.PlanResult, error)
	// AllocateMulti distributes several item types over shipments.
	AllocateMulti(ctx context.Context, req model.PlanRequest) (model.PlanResult, error)
	// Project allocates req and returns the unit positions of one shipment.
	Project(ctx context.Context, req model.PlanRequest, shipmentIndex int) (model.Projection, error)
	// BatchAllocate allocates independent requests concurrently.
	BatchAllocate(ctx context.Context, reqs []model.PlanRequest) ([]model.BatchEntry, error)
	// InvalidateCache drops every cached result, e.g. after a catalog change.
	InvalidateCache()
}

// Option configures a PlanningServiceImpl.
type Option func(*PlanningServiceImpl)

// PlanningServiceImpl implements PlanningService.
type PlanningServiceImpl struct {
	cache            cache.Cache
	containers       ContainerCatalog
	items            ItemCatalog
	padding          float64
	maxQuantity      int
	maxShipments     int
	batchConcurrency int
	tracer           trace.Tracer
}

// NewPlanningService creates a planning service with the given options.
func NewPlanningService(opts ...Option) *PlanningServiceImpl {
	s := &PlanningServiceImpl{
		maxQuantity:      DefaultMaxQuantity,
		maxShipments:     DefaultMaxShipments,
		batchConcurrency: DefaultBatchConcurrency,
		tracer:           otel.Tracer("github.com/guttosm/loadplan-service/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithCache caches results in a sharded TTL cache.
func WithCache(capacity int, ttl time.Duration, shards int) Option {
	return func(s *PlanningServiceImpl) {
		if capacity > 0 {
			s.cache = NewShardedCache(capacity, ttl, shards)
		}
	}
}

// WithCacheInterface injects a cache implementation.
func WithCacheInterface(c cache.Cache) Option {
	return func(s *PlanningServiceImpl) {
		s.cache = c
	}
}

// WithCatalogs lets requests reference stored containers and items.
func WithCatalogs(containers ContainerCatalog, items ItemCatalog) Option {
	return func(s *PlanningServiceImpl) {
		s.containers = containers
		s.items = items
	}
}

// WithDefaultPadding sets the container padding used when a request sets none.
func WithDefaultPadding(padding float64) Option {
	return func(s *PlanningServiceImpl) {
		s.padding = padding
	}
}

// WithLimits overrides the quantity and shipment limits. Non-positive values keep the defaults.
func WithLimits(maxQuantity, maxShipments int) Option {
	return func(s *PlanningServiceImpl) {
		if maxQuantity > 0 {
			s.maxQuantity = maxQuantity
		}
		if maxShipments > 0 {
			s.maxShipments = maxShipments
		}
	}
}

// WithBatchConcurrency sets how many batch requests run at once.
func WithBatchConcurrency(n int) Option {
	return func(s *PlanningServiceImpl) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *PlanningServiceImpl) {
		if t != nil {
			s.tracer = t
		}
	}
}

// Close stops the cache cleanup goroutines.
func (s *PlanningServiceImpl) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// CacheMetrics reports the result cache counters. ok is false when the cache
// is disabled or does not expose metrics.
func (s *PlanningServiceImpl) CacheMetrics() (m cache.Metrics, ok bool) {
	c, ok := s.cache.(cache.CacheWithMetrics)
	if !ok {
		return cache.Metrics{}, false
	}
	return c.Metrics(), true
}

func (s *PlanningServiceImpl) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *PlanningServiceImpl) PlanItem(ctx context.Context, req model.PlanRequest) (model.Layout, error) {
	ctx, span := s.tracer.Start(ctx, "planning.PlanItem")
	defer span.End()
	start := time.Now()

	layout, err := s.planItem(ctx, req)
	mode := string(req.EffectiveMode())
	metrics.RecordPlanCalculation(mode, time.Since(start), status(err, false))
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("plan.feasible", layout != nil))
	return layout, nil
}

func (s *PlanningServiceImpl) planItem(ctx context.Context, req model.PlanRequest) (model.Layout, error) {
	if req.EffectiveMode() == model.ModeMulti {
		return nil, &engine.ValidationError{Field: "mode", Reason: "single item plans are standard or extended"}
	}
	req, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Mode == model.ModeExtended {
		plan, err := engine.PlanSingleItemExtended(req.Item, req.Containers, req.Options)
		if err != nil || plan == nil {
			return nil, err
		}
		return plan, nil
	}
	plan, err := engine.PlanSingleItem(req.Item, req.Containers, req.Options)
	if err != nil || plan == nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanningServiceImpl) Allocate(ctx context.Context, req model.PlanRequest) (model.PlanResult, error) {
	return s.traced(ctx, "planning.Allocate", req)
}

func (s *PlanningServiceImpl) AllocateMulti(ctx context.Context, req model.PlanRequest) (model.PlanResult, error) {
	req.Mode = model.ModeMulti
	return s.traced(ctx, "planning.AllocateMulti", req)
}

func (s *PlanningServiceImpl) traced(ctx context.Context, name string, req model.PlanRequest) (model.PlanResult, error) {
	mode := req.EffectiveMode()
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("plan.mode", string(mode)),
		attribute.Int("plan.quantity", req.TotalQuantity()),
	))
	defer span.End()
	start := time.Now()

	result, _, cached, err := s.allocate(ctx, req)
	metrics.RecordPlanCalculation(string(mode), time.Since(start), status(err, cached))
	if err != nil {
		fail(span, err)
		return model.PlanResult{}, err
	}
	if !cached {
		metrics.RecordPlanOutcome(string(mode), len(result.Shipments), result.Leftover)
		l := logger.ForPlan(result)
		if result.Complete() {
			l.Debug().Dur("elapsed", time.Since(start)).Msg("Plan computed")
		} else {
			l.Warn().Msg("Plan leaves units unplaced")
		}
	}
	span.SetAttributes(
		attribute.String("plan.id", result.PlanID),
		attribute.Bool("plan.cached", cached),
		attribute.Int("plan.shipments", len(result.Shipments)),
		attribute.Int("plan.leftover", result.Leftover),
	)
	return result, nil
}

func (s *PlanningServiceImpl) Project(ctx context.Context, req model.PlanRequest, shipmentIndex int) (model.Projection, error) {
	ctx, span := s.tracer.Start(ctx, "planning.Project", trace.WithAttributes(
		attribute.Int("plan.shipment_index", shipmentIndex),
	))
	defer span.End()

	result, prepared, _, err := s.allocate(ctx, req)
	if err != nil {
		fail(span, err)
		return model.Projection{}, err
	}
	if shipmentIndex < 0 || shipmentIndex >= len(result.Shipments) {
		err := &engine.ValidationError{
			Field:  "shipment_index",
			Reason: fmt.Sprintf("must be between 0 and %d", len(result.Shipments)-1),
		}
		fail(span, err)
		return model.Projection{}, err
	}

	shipment := result.Shipments[shipmentIndex]
	positions, err := engine.ProjectGeometry(shipment, prepared.ItemList(), prepared.Options)
	if err != nil {
		fail(span, err)
		return model.Projection{}, fmt.Errorf("project shipment %d: %w", shipmentIndex, err)
	}
	span.SetAttributes(attribute.Int("plan.positions", len(positions)))

	return model.Projection{
		PlanID:        result.PlanID,
		ShipmentIndex: shipmentIndex,
		Shipment:      shipment,
		Positions:     positions,
		Groups:        result.Groups,
	}, nil
}

func (s *PlanningServiceImpl) BatchAllocate(ctx context.Context, reqs []model.PlanRequest) ([]model.BatchEntry, error) {
	if len(reqs) == 0 {
		return nil, &engine.ValidationError{Field: "requests", Reason: "must not be empty"}
	}

	ctx, span := s.tracer.Start(ctx, "planning.BatchAllocate", trace.WithAttributes(
		attribute.Int("batch.size", len(reqs)),
	))
	defer span.End()

	entries := make([]model.BatchEntry, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i].Index = i
			result, err := s.Allocate(gctx, req)
			switch {
			case err == nil:
				entries[i].Result = &result
			case isRequestError(err):
				entries[i].Error = err.Error()
			default:
				return fmt.Errorf("batch request %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fail(span, err)
		return nil, err
	}
	return entries, nil
}

// allocate returns the result for req along with the request as it was planned.
func (s *PlanningServiceImpl) allocate(ctx context.Context, req model.PlanRequest) (model.PlanResult, model.PlanRequest, bool, error) {
	req, err := s.prepare(ctx, req)
	if err != nil {
		return model.PlanResult{}, req, false, err
	}

	key, err := Fingerprint(req)
	if err != nil {
		return model.PlanResult{}, req, false, err
	}
	if s.cache != nil {
		if result, ok := s.cache.Get(key); ok {
			return result, req, true, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return model.PlanResult{}, req, false, fmt.Errorf("allocate: %w", err)
	}
	result, err := s.compute(req)
	if err != nil {
		return model.PlanResult{}, req, false, err
	}
	result.PlanID = uuid.NewSHA1(planNamespace, []byte(key)).String()

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, req, false, nil
}

// prepare fills in defaults and catalog references and applies the service limits.
func (s *PlanningServiceImpl) prepare(ctx context.Context, req model.PlanRequest) (model.PlanRequest, error) {
	req.Mode = req.EffectiveMode()
	if !req.Mode.Valid() {
		return req, &engine.ValidationError{Field: "mode", Reason: "must be standard, extended or multi"}
	}
	if req.Options.ContainerPadding == 0 {
		req.Options.ContainerPadding = s.padding
	}

	if req.Mode == model.ModeMulti {
		if len(req.Items) == 0 {
			return req, &engine.ValidationError{Field: "items", Reason: "must not be empty"}
		}
		items := make([]model.ItemQuantity, len(req.Items))
		for i, iq := range req.Items {
			item, err := s.resolveItem(ctx, iq.Item)
			if err != nil {
				return req, err
			}
			items[i] = model.ItemQuantity{Item: item, Quantity: iq.Quantity}
		}
		req.Items = items
		req.Item = model.Item{}
		req.Quantity = 0
	} else {
		item, err := s.resolveItem(ctx, req.Item)
		if err != nil {
			return req, err
		}
		req.Item = item
		req.Items = nil
	}

	if len(req.Containers) == 0 {
		if s.containers == nil {
			return req, &engine.ValidationError{Field: "containers", Reason: "at least one container is required"}
		}
		containers, err := s.containers.Resolve(ctx, req.ContainerIDs)
		if err != nil {
			return req, err
		}
		if len(containers) == 0 {
			return req, &engine.ValidationError{Field: "containers", Reason: "the container catalog is empty"}
		}
		req.Containers = containers
	}
	req.ContainerIDs = nil

	if total := req.TotalQuantity(); total > s.maxQuantity {
		return req, &engine.ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("%d exceeds the limit of %d units", total, s.maxQuantity),
		}
	}
	return req, nil
}

func (s *PlanningServiceImpl) resolveItem(ctx context.Context, ref model.Item) (model.Item, error) {
	if s.items == nil {
		return ref, nil
	}
	return s.items.Resolve(ctx, ref)
}

func (s *PlanningServiceImpl) compute(req model.PlanRequest) (model.PlanResult, error) {
	result := model.PlanResult{Mode: req.Mode, Requested: req.TotalQuantity()}

	switch req.Mode {
	case model.ModeMulti:
		items := req.ItemList()
		quantities := make([]int, len(req.Items))
		for i, iq := range req.Items {
			quantities[i] = iq.Quantity
		}
		alloc, err := engine.AllocateMultiItemExtended(items, quantities, req.Containers, req.Options)
		if err != nil {
			return result, err
		}
		result.Shipments = alloc.Shipments
		result.Leftover = alloc.TotalLeftover()
		result.LeftoverByItem = alloc.Leftover
	default:
		allocateFn := engine.AllocateQuantity
		if req.Mode == model.ModeExtended {
			allocateFn = engine.AllocateQuantityExtended
		}
		alloc, err := allocateFn(req.Item, req.Quantity, req.Containers, req.Options)
		if err != nil {
			return result, err
		}
		result.Shipments = alloc.Shipments
		result.Leftover = alloc.Leftover
	}

	if len(result.Shipments) > s.maxShipments {
		return result, &engine.ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("needs %d shipments, more than the limit of %d", len(result.Shipments), s.maxShipments),
		}
	}
	if result.Shipments == nil {
		result.Shipments = []model.Shipment{}
	}
	result.Shipped = result.Requested - result.Leftover
	result.Groups = engine.GroupShipmentsByContainer(result.Shipments)
	return result, nil
}

// Fingerprint returns the cache key of a prepared request.
func Fingerprint(req model.PlanRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("fingerprint request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func isRequestError(err error) bool {
	return errors.Is(err, engine.ErrInvalidInput) || errors.Is(err, repository.ErrNotFound)
}

func status(err error, cached bool) string {
	switch {
	case err == nil && cached:
		return "cached"
	case err == nil:
		return "success"
	case isRequestError(err):
		return "invalid"
	default:
		return "error"
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
