//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/engine"
	"github.com/guttosm/loadplan-service/internal/mocks"
	"github.com/guttosm/loadplan-service/internal/repository"
	"github.com/guttosm/loadplan-service/internal/testutil"
)

var (
	_ ContainerCatalog = (*mocks.MockContainerCatalog)(nil)
	_ ItemCatalog      = (*mocks.MockItemCatalog)(nil)
	_ PlanningService  = (*mocks.MockPlanningService)(nil)
	_ LoggingService   = (*mocks.MockLoggingService)(nil)
)

func TestContainerCatalogService_Create(t *testing.T) {
	tests := []struct {
		name      string
		container model.Container
		setupMock func(*mocks.MockContainerRepositoryInterface)
		wantErr   error
		changed   bool
	}{
		{
			name:      "valid container",
			container: testutil.PalletBox(),
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(d *repository.ContainerDocument) bool {
					return d.ID == 1 && d.UpdatedBy == "ops"
				})).Return(nil)
			},
			changed: true,
		},
		{
			name:      "missing id",
			container: model.Container{InnerWidth: 1, InnerDepth: 1, InnerHeight: 1},
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {},
			wantErr:   engine.ErrInvalidInput,
		},
		{
			name:      "flat container",
			container: model.Container{ID: 3, InnerWidth: 100, InnerDepth: 100},
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {},
			wantErr:   engine.ErrInvalidInput,
		},
		{
			name:      "duplicate id",
			container: testutil.PalletBox(),
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {
				m.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
			},
			wantErr: repository.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockContainerRepositoryInterface)
			tt.setupMock(repo)
			changed := false
			svc := NewContainerCatalogService(repo, WithChangeHook(func() { changed = true }))

			doc, err := svc.Create(context.Background(), tt.container, "ops")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.container, doc.Model())
			}
			assert.Equal(t, tt.changed, changed)
			repo.AssertExpectations(t)
		})
	}
}

func TestContainerCatalogService_UpdateAndDelete(t *testing.T) {
	repo := new(mocks.MockContainerRepositoryInterface)
	repo.On("Update", mock.Anything, mock.Anything).Return(&repository.ContainerDocument{ID: 1, Version: 2}, nil)
	repo.On("Delete", mock.Anything, 1).Return(nil)
	repo.On("Delete", mock.Anything, 9).Return(repository.ErrNotFound)

	changes := 0
	svc := NewContainerCatalogService(repo, WithChangeHook(func() { changes++ }))

	doc, err := svc.Update(context.Background(), testutil.PalletBox(), "ops")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)

	require.NoError(t, svc.Delete(context.Background(), 1))
	err = svc.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 2, changes)
}

func TestContainerCatalogService_Resolve(t *testing.T) {
	pallet := *repository.NewContainerDocument(testutil.PalletBox())
	half := *repository.NewContainerDocument(testutil.HalfBox())

	tests := []struct {
		name      string
		ids       []int
		setupMock func(*mocks.MockContainerRepositoryInterface)
		wantIDs   []int
		wantErr   error
	}{
		{
			name: "whole catalog",
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {
				m.On("List", mock.Anything, 0).Return([]repository.ContainerDocument{pallet, half}, nil)
			},
			wantIDs: []int{1, 2},
		},
		{
			name: "request order wins",
			ids:  []int{2, 1},
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {
				m.On("GetMany", mock.Anything, []int{2, 1}).Return([]repository.ContainerDocument{pallet, half}, nil)
			},
			wantIDs: []int{2, 1},
		},
		{
			name: "unknown id",
			ids:  []int{1, 5},
			setupMock: func(m *mocks.MockContainerRepositoryInterface) {
				m.On("GetMany", mock.Anything, []int{1, 5}).Return([]repository.ContainerDocument{pallet}, nil)
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockContainerRepositoryInterface)
			tt.setupMock(repo)

			containers, err := NewContainerCatalogService(repo).Resolve(context.Background(), tt.ids)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := []int{}
			for _, c := range containers {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCatalogServices_Disabled(t *testing.T) {
	ctx := context.Background()
	containers := NewContainerCatalogService(nil)
	items := NewItemCatalogService(nil)

	_, err := containers.List(ctx, 10)
	assert.ErrorIs(t, err, ErrCatalogDisabled)
	_, err = containers.Resolve(ctx, nil)
	assert.ErrorIs(t, err, ErrCatalogDisabled)
	_, _, err = items.Put(ctx, testutil.Carton(), "ops")
	assert.ErrorIs(t, err, ErrCatalogDisabled)
	_, err = items.Resolve(ctx, model.Item{SKU: "CARTON-60"})
	assert.ErrorIs(t, err, ErrCatalogDisabled)

	full, err := items.Resolve(ctx, testutil.Carton())
	require.NoError(t, err)
	assert.Equal(t, testutil.Carton(), full)
}

func TestItemCatalogService_Put(t *testing.T) {
	tests := []struct {
		name      string
		item      model.Item
		setupMock func(*mocks.MockItemRepositoryInterface)
		created   bool
		wantErr   bool
	}{
		{
			name: "new item",
			item: testutil.Carton(),
			setupMock: func(m *mocks.MockItemRepositoryInterface) {
				m.On("Upsert", mock.Anything, mock.Anything).Return(true, nil)
			},
			created: true,
		},
		{
			name: "replaced item",
			item: testutil.Carton(),
			setupMock: func(m *mocks.MockItemRepositoryInterface) {
				m.On("Upsert", mock.Anything, mock.Anything).Return(false, nil)
			},
		},
		{
			name:      "missing sku",
			item:      model.Item{Width: 1, Depth: 1, Height: 1},
			setupMock: func(m *mocks.MockItemRepositoryInterface) {},
			wantErr:   true,
		},
		{
			name:      "negative gap",
			item:      model.Item{SKU: "X", Width: 1, Depth: 1, Height: 1, GapXY: -1},
			setupMock: func(m *mocks.MockItemRepositoryInterface) {},
			wantErr:   true,
		},
		{
			name: "store failure",
			item: testutil.Carton(),
			setupMock: func(m *mocks.MockItemRepositoryInterface) {
				m.On("Upsert", mock.Anything, mock.Anything).Return(false, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockItemRepositoryInterface)
			tt.setupMock(repo)

			_, created, err := NewItemCatalogService(repo).Put(context.Background(), tt.item, "ops")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.created, created)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoadCatalogSeed(t *testing.T) {
	seed, err := LoadCatalogSeed("testdata/catalog_seed.yaml")
	require.NoError(t, err)

	require.Len(t, seed.Containers, 2)
	assert.Equal(t, testutil.PalletBox(), seed.Containers[0])
	assert.Equal(t, 400.0, seed.Containers[1].MaxWeight)

	require.Len(t, seed.Items, 2)
	assert.Equal(t, "Carton 60x40x20", seed.Items[0].Name)
	assert.True(t, seed.Items[1].KeepUpright)
	assert.Equal(t, 1.2, seed.Items[1].UnitWeight)
	assert.Equal(t, 2, seed.Items[1].MaxStackLayers)

	_, err = LoadCatalogSeed("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestCatalogSeed_Apply(t *testing.T) {
	containers := new(mocks.MockContainerRepositoryInterface)
	containers.On("Create", mock.Anything, mock.MatchedBy(func(d *repository.ContainerDocument) bool { return d.ID == 1 })).
		Return(repository.ErrDuplicate)
	containers.On("Create", mock.Anything, mock.MatchedBy(func(d *repository.ContainerDocument) bool { return d.ID == 2 })).
		Return(nil)
	items := new(mocks.MockItemRepositoryInterface)
	items.On("Upsert", mock.Anything, mock.Anything).Return(true, nil)

	seed := &CatalogSeed{
		Containers: []model.Container{testutil.PalletBox(), testutil.HalfBox()},
		Items:      []model.Item{testutil.Carton()},
	}
	added, itemsAdded, err := seed.Apply(context.Background(), NewContainerCatalogService(containers), NewItemCatalogService(items))
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, itemsAdded)
}
