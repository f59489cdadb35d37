package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/repository"
)

// The service mocks below satisfy the interfaces of the service package.
// They do not import it so that the service tests can use this package.

// MockLoggingService mocks service.LoggingService.
type MockLoggingService struct {
	mock.Mock
}

// NewMockLoggingService creates a MockLoggingService whose expectations
// are asserted when the test ends.
func NewMockLoggingService(t *testing.T) *MockLoggingService {
	m := &MockLoggingService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlanningService mocks service.PlanningService.
type MockPlanningService struct {
	mock.Mock
}

// NewMockPlanningService creates a MockPlanningService whose expectations are asserted when the test ends.
func NewMockPlanningService(t *testing.T) *MockPlanningService {
	m := &MockPlanningService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPlanningService) PlanItem(ctx context.Context, req model.PlanRequest) (model.Layout, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Layout), args.Error(1)
}

func (m *MockPlanningService) Allocate(ctx context.Context, req model.PlanRequest) (model.PlanResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.PlanResult), args.Error(1)
}

func (m *MockPlanningService) AllocateMulti(ctx context.Context, req model.PlanRequest) (model.PlanResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.PlanResult), args.Error(1)
}

func (m *MockPlanningService) Project(ctx context.Context, req model.PlanRequest, shipmentIndex int) (model.Projection, error) {
	args := m.Called(ctx, req, shipmentIndex)
	return args.Get(0).(model.Projection), args.Error(1)
}

func (m *MockPlanningService) BatchAllocate(ctx context.Context, reqs []model.PlanRequest) ([]model.BatchEntry, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BatchEntry), args.Error(1)
}

func (m *MockPlanningService) InvalidateCache() {
	m.Called()
}

// MockContainerCatalog mocks service.ContainerCatalog.
type MockContainerCatalog struct {
	mock.Mock
}

// NewMockContainerCatalog creates a MockContainerCatalog whose expectations are asserted when the test ends.
func NewMockContainerCatalog(t *testing.T) *MockContainerCatalog {
	m := &MockContainerCatalog{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContainerCatalog) Get(ctx context.Context, id int) (*repository.ContainerDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerCatalog) List(ctx context.Context, limit int) ([]repository.ContainerDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerCatalog) Create(ctx context.Context, c model.Container, by string) (*repository.ContainerDocument, error) {
	args := m.Called(ctx, c, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerCatalog) Update(ctx context.Context, c model.Container, by string) (*repository.ContainerDocument, error) {
	args := m.Called(ctx, c, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerCatalog) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContainerCatalog) Resolve(ctx context.Context, ids []int) ([]model.Container, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Container), args.Error(1)
}

// MockItemCatalog mocks service.ItemCatalog.
type MockItemCatalog struct {
	mock.Mock
}

// NewMockItemCatalog creates a MockItemCatalog whose expectations are asserted when the test ends.
func NewMockItemCatalog(t *testing.T) *MockItemCatalog {
	m := &MockItemCatalog{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockItemCatalog) Get(ctx context.Context, sku string) (*repository.ItemDocument, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ItemDocument), args.Error(1)
}

func (m *MockItemCatalog) List(ctx context.Context, limit int) ([]repository.ItemDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ItemDocument), args.Error(1)
}

func (m *MockItemCatalog) Put(ctx context.Context, item model.Item, by string) (*repository.ItemDocument, bool, error) {
	args := m.Called(ctx, item, by)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*repository.ItemDocument), args.Bool(1), args.Error(2)
}

func (m *MockItemCatalog) Delete(ctx context.Context, sku string) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

func (m *MockItemCatalog) Resolve(ctx context.Context, ref model.Item) (model.Item, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(model.Item), args.Error(1)
}
