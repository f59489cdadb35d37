//go:build !integration

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/engine"
	"github.com/guttosm/loadplan-service/internal/mocks"
	"github.com/guttosm/loadplan-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.Config)
	}{
		{name: "default config"},
		{name: "cache disabled", cfg: func(c *config.Config) { c.Cache.Size = 0 }},
		{name: "cache enabled", cfg: func(c *config.Config) { c.Cache = config.CacheConfig{Size: 10, TTL: time.Minute, Shards: 2} }},
		{name: "padding", cfg: func(c *config.Config) { c.Planning.ContainerPadding = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			components := InitializeServices(cfg, nil)
			require.NotNil(t, components.Planner)
			t.Cleanup(components.Planner.Close)

			result, err := components.Planner.Allocate(context.Background(), model.PlanRequest{
				Item:       testutil.Carton(),
				Quantity:   10,
				Containers: testutil.Catalog(),
			})
			require.NoError(t, err)
			assert.Equal(t, 10, result.Shipped)
		})
	}
}

func TestInitializeServices_WithoutCatalogNeedsContainers(t *testing.T) {
	components := InitializeServices(config.Default(), nil)
	t.Cleanup(components.Planner.Close)

	_, err := components.Planner.Allocate(context.Background(), model.PlanRequest{
		Item:     testutil.Carton(),
		Quantity: 10,
	})

	var verr *engine.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "containers", verr.Field)
}

func TestInitializeServices_UsesCatalogs(t *testing.T) {
	containers := mocks.NewMockContainerCatalog(t)
	items := mocks.NewMockItemCatalog(t)
	containers.On("Resolve", mock.Anything, []int{1}).Return([]model.Container{testutil.PalletBox()}, nil).Once()
	items.On("Resolve", mock.Anything, model.Item{SKU: "CARTON-60"}).Return(testutil.Carton(), nil).Once()

	components := InitializeServices(config.Default(), &DatabaseComponents{Containers: containers, Items: items})
	t.Cleanup(components.Planner.Close)

	result, err := components.Planner.Allocate(context.Background(), model.PlanRequest{
		Item:         model.Item{SKU: "CARTON-60"},
		Quantity:     1500,
		ContainerIDs: []int{1},
	})

	require.NoError(t, err)
	assert.Len(t, result.Shipments, 2)
}
