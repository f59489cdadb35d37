package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrientation_Less(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Orientation
		expected bool
	}{
		{name: "first axis decides", a: Orientation{30, 90, 90}, b: Orientation{40, 10, 10}, expected: true},
		{name: "second axis decides", a: Orientation{30, 20, 90}, b: Orientation{30, 40, 10}, expected: true},
		{name: "third axis decides", a: Orientation{30, 20, 10}, b: Orientation{30, 20, 5}, expected: false},
		{name: "equal", a: Orientation{1, 2, 3}, b: Orientation{1, 2, 3}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Less(tt.b))
		})
	}
}

func TestLayout_Variants(t *testing.T) {
	var layouts = []Layout{
		&Plan{ContainerID: 1, Capacity: 1000},
		&ExtendedPlan{ContainerID: 2, TotalCapacity: 1200},
	}

	kinds := []LayoutKind{}
	for _, l := range layouts {
		switch v := l.(type) {
		case *Plan:
			assert.Equal(t, v.Capacity, l.Units())
		case *ExtendedPlan:
			assert.Equal(t, v.TotalCapacity, l.Units())
		}
		kinds = append(kinds, l.Kind())
	}
	assert.Equal(t, []LayoutKind{LayoutStandard, LayoutExtended}, kinds)
	assert.Equal(t, 2, layouts[1].Container())
}

func TestShipment_JSON(t *testing.T) {
	tests := []struct {
		name     string
		shipment Shipment
		key      string
		kind     LayoutKind
	}{
		{
			name: "standard plan",
			shipment: Shipment{
				Container: Container{ID: 1, InnerWidth: 600, InnerDepth: 400, InnerHeight: 200},
				Layout:    &Plan{ContainerID: 1, Orientation: Orientation{60, 40, 20}, Capacity: 1000},
				Quantity:  500,
			},
			key:  "plan",
			kind: LayoutStandard,
		},
		{
			name: "extended plan",
			shipment: Shipment{
				Container:      Container{ID: 2, InnerWidth: 120, InnerDepth: 60, InnerHeight: 50},
				Layout:         &ExtendedPlan{ContainerID: 2, TotalCapacity: 3, Layers: []LayerPattern{{Kind: PatternPlaced}}},
				Quantity:       3,
				ItemQuantities: []int{1, 2},
			},
			key:  "extended_plan",
			kind: LayoutExtended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.shipment)
			require.NoError(t, err)

			var raw map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &raw))
			assert.Equal(t, string(tt.kind), raw["kind"])
			assert.Contains(t, raw, tt.key)

			var back Shipment
			require.NoError(t, json.Unmarshal(data, &back))
			require.NotNil(t, back.Layout)
			assert.Equal(t, tt.kind, back.Layout.Kind())
			assert.Equal(t, tt.shipment.Quantity, back.Quantity)
			assert.Equal(t, tt.shipment.ItemQuantities, back.ItemQuantities)
		})
	}
}

func TestAllocation_Totals(t *testing.T) {
	a := Allocation{Shipments: []Shipment{{Quantity: 1000}, {Quantity: 500}}, Leftover: 3}
	assert.Equal(t, 1500, a.Shipped())

	m := MultiAllocation{Leftover: []int{1, 0, 4}}
	assert.Equal(t, 5, m.TotalLeftover())
}

func TestPlanRequest_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		req      PlanRequest
		mode     AllocationMode
		total    int
		numItems int
	}{
		{
			name:     "single item defaults to standard",
			req:      PlanRequest{Item: Item{Width: 1, Depth: 1, Height: 1}, Quantity: 40},
			mode:     ModeStandard,
			total:    40,
			numItems: 1,
		},
		{
			name:     "explicit extended",
			req:      PlanRequest{Mode: ModeExtended, Quantity: 7},
			mode:     ModeExtended,
			total:    7,
			numItems: 1,
		},
		{
			name:     "items imply multi",
			req:      PlanRequest{Items: []ItemQuantity{{Quantity: 3}, {Quantity: 4}}},
			mode:     ModeMulti,
			total:    7,
			numItems: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mode, tt.req.EffectiveMode())
			assert.Equal(t, tt.total, tt.req.TotalQuantity())
			assert.Len(t, tt.req.ItemList(), tt.numItems)
		})
	}
}

func TestAllocationMode_Valid(t *testing.T) {
	assert.True(t, ModeStandard.Valid())
	assert.True(t, ModeMulti.Valid())
	assert.False(t, AllocationMode("greedy").Valid())
}
