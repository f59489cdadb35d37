// Package mocks holds testify mocks of the repository and service interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/loadplan-service/internal/repository"
)

// MockContainerRepositoryInterface mocks repository.ContainerRepositoryInterface.
type MockContainerRepositoryInterface struct {
	mock.Mock
}

func (m *MockContainerRepositoryInterface) Get(ctx context.Context, id int) (*repository.ContainerDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerRepositoryInterface) GetMany(ctx context.Context, ids []int) ([]repository.ContainerDocument, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerRepositoryInterface) List(ctx context.Context, limit int) ([]repository.ContainerDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerRepositoryInterface) Create(ctx context.Context, doc *repository.ContainerDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockContainerRepositoryInterface) Update(ctx context.Context, doc *repository.ContainerDocument) (*repository.ContainerDocument, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ContainerDocument), args.Error(1)
}

func (m *MockContainerRepositoryInterface) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

// MockItemRepositoryInterface mocks repository.ItemRepositoryInterface.
type MockItemRepositoryInterface struct {
	mock.Mock
}

func (m *MockItemRepositoryInterface) Get(ctx context.Context, sku string) (*repository.ItemDocument, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ItemDocument), args.Error(1)
}

func (m *MockItemRepositoryInterface) List(ctx context.Context, limit int) ([]repository.ItemDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ItemDocument), args.Error(1)
}

func (m *MockItemRepositoryInterface) Upsert(ctx context.Context, doc *repository.ItemDocument) (bool, error) {
	args := m.Called(ctx, doc)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepositoryInterface) Delete(ctx context.Context, sku string) error {
	return m.Called(ctx, sku).Error(0)
}

// MockLogsRepositoryInterface mocks repository.LogsRepositoryInterface.
type MockLogsRepositoryInterface struct {
	mock.Mock
}

func (m *MockLogsRepositoryInterface) Create(ctx context.Context, entry *repository.LogEntryDocument) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLogsRepositoryInterface) CreateMany(ctx context.Context, entries []*repository.LogEntryDocument) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLogsRepositoryInterface) Query(ctx context.Context, opts repository.LogQueryOptions) ([]*repository.LogEntryDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.LogEntryDocument), args.Error(1)
}

func (m *MockLogsRepositoryInterface) Count(ctx context.Context, opts repository.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

var (
	_ repository.ContainerRepositoryInterface = (*MockContainerRepositoryInterface)(nil)
	_ repository.ItemRepositoryInterface      = (*MockItemRepositoryInterface)(nil)
	_ repository.LogsRepositoryInterface      = (*MockLogsRepositoryInterface)(nil)
)
