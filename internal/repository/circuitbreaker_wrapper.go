package repository

import (
	"context"
	"errors"

	"github.com/guttosm/loadplan-service/internal/circuitbreaker"
	"go.mongodb.org/mongo-driver/mongo"
)

// guard runs fn through cb. Lookup misses and duplicate keys are answers, not
// store failures, so they are passed back without tripping the breaker.
func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var (
		result    T
		domainErr error
	)
	err := cb.Execute(ctx, func() error {
		var callErr error
		result, callErr = fn()
		if errors.Is(callErr, ErrNotFound) || errors.Is(callErr, ErrDuplicate) {
			domainErr = callErr
			return nil
		}
		return callErr
	})
	if err != nil {
		return result, err
	}
	return result, domainErr
}

func guardErr(ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() error) error {
	_, err := guard(ctx, cb, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// IsUnavailable reports whether err means the store could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, circuitbreaker.ErrCircuitOpen) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err)
}

// ContainerRepositoryWithCircuitBreaker guards a container repository.
type ContainerRepositoryWithCircuitBreaker struct {
	repo           ContainerRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewContainerRepositoryWithCircuitBreaker wraps repo with cb.
func NewContainerRepositoryWithCircuitBreaker(repo ContainerRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ContainerRepositoryWithCircuitBreaker {
	return &ContainerRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *ContainerRepositoryWithCircuitBreaker) Get(ctx context.Context, id int) (*ContainerDocument, error) {
	return guard(ctx, r.circuitBreaker, func() (*ContainerDocument, error) {
		return r.repo.Get(ctx, id)
	})
}

func (r *ContainerRepositoryWithCircuitBreaker) GetMany(ctx context.Context, ids []int) ([]ContainerDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]ContainerDocument, error) {
		return r.repo.GetMany(ctx, ids)
	})
}

func (r *ContainerRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]ContainerDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]ContainerDocument, error) {
		return r.repo.List(ctx, limit)
	})
}

func (r *ContainerRepositoryWithCircuitBreaker) Create(ctx context.Context, doc *ContainerDocument) error {
	return guardErr(ctx, r.circuitBreaker, func() error {
		return r.repo.Create(ctx, doc)
	})
}

func (r *ContainerRepositoryWithCircuitBreaker) Update(ctx context.Context, doc *ContainerDocument) (*ContainerDocument, error) {
	return guard(ctx, r.circuitBreaker, func() (*ContainerDocument, error) {
		return r.repo.Update(ctx, doc)
	})
}

func (r *ContainerRepositoryWithCircuitBreaker) Delete(ctx context.Context, id int) error {
	return guardErr(ctx, r.circuitBreaker, func() error {
		return r.repo.Delete(ctx, id)
	})
}

// GetCircuitBreaker returns the breaker for readiness reporting.
func (r *ContainerRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// ItemRepositoryWithCircuitBreaker guards an item repository.
type ItemRepositoryWithCircuitBreaker struct {
	repo           ItemRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewItemRepositoryWithCircuitBreaker wraps repo with cb.
func NewItemRepositoryWithCircuitBreaker(repo ItemRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ItemRepositoryWithCircuitBreaker {
	return &ItemRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *ItemRepositoryWithCircuitBreaker) Get(ctx context.Context, sku string) (*ItemDocument, error) {
	return guard(ctx, r.circuitBreaker, func() (*ItemDocument, error) {
		return r.repo.Get(ctx, sku)
	})
}

func (r *ItemRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]ItemDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]ItemDocument, error) {
		return r.repo.List(ctx, limit)
	})
}

func (r *ItemRepositoryWithCircuitBreaker) Upsert(ctx context.Context, doc *ItemDocument) (bool, error) {
	return guard(ctx, r.circuitBreaker, func() (bool, error) {
		return r.repo.Upsert(ctx, doc)
	})
}

func (r *ItemRepositoryWithCircuitBreaker) Delete(ctx context.Context, sku string) error {
	return guardErr(ctx, r.circuitBreaker, func() error {
		return r.repo.Delete(ctx, sku)
	})
}

// GetCircuitBreaker returns the breaker for readiness reporting.
func (r *ItemRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker guards the audit log store.
// Writes are dropped silently while the breaker is open.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo with cb.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := guardErr(ctx, r.circuitBreaker, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := guardErr(ctx, r.circuitBreaker, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]*LogEntryDocument, error) {
		return r.repo.Query(ctx, opts)
	})
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return guard(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the breaker for readiness reporting.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
