package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

func carton() model.Item {
	return model.Item{Width: 60, Depth: 40, Height: 20}
}

func TestAllocateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request AllocateRequest
		field   string
	}{
		{name: "valid request", request: AllocateRequest{Item: carton(), Quantity: 100}},
		{name: "extended mode", request: AllocateRequest{Mode: model.ModeExtended, Item: carton(), Quantity: 1}},
		{name: "multi mode", request: AllocateRequest{Mode: model.ModeMulti, Item: carton()}, field: "mode"},
		{name: "unknown mode", request: AllocateRequest{Mode: "greedy", Item: carton()}, field: "mode"},
		{
			name:    "items on single endpoint",
			request: AllocateRequest{Items: []model.ItemQuantity{{Item: carton(), Quantity: 1}}},
			field:   "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestAllocateRequest_ToModel(t *testing.T) {
	req := AllocateRequest{
		Mode:         model.ModeExtended,
		Item:         carton(),
		Quantity:     42,
		ContainerIDs: []int{3},
		Options:      model.PlanOptions{ContainerPadding: 5},
	}

	m := req.ToModel()
	assert.Equal(t, model.ModeExtended, m.Mode)
	assert.Equal(t, 42, m.Quantity)
	assert.Equal(t, []int{3}, m.ContainerIDs)
	assert.Equal(t, 5.0, m.Options.ContainerPadding)
}

func TestMultiAllocateRequest(t *testing.T) {
	empty := MultiAllocateRequest{}
	assert.Equal(t, ErrItemsRequired, empty.Validate())

	req := MultiAllocateRequest{Items: []model.ItemQuantity{{Item: carton(), Quantity: 3}}}
	require.NoError(t, req.Validate())
	m := req.ToModel()
	assert.Equal(t, model.ModeMulti, m.Mode)
	assert.Equal(t, 3, m.TotalQuantity())
}

func TestBatchAllocateRequest_Validate(t *testing.T) {
	valid := AllocateRequest{Item: carton(), Quantity: 1}
	tooMany := make([]AllocateRequest, MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = valid
	}

	tests := []struct {
		name    string
		request BatchAllocateRequest
		field   string
	}{
		{name: "valid batch", request: BatchAllocateRequest{Requests: []AllocateRequest{valid, valid}}},
		{name: "empty batch", request: BatchAllocateRequest{}, field: "requests"},
		{name: "oversized batch", request: BatchAllocateRequest{Requests: tooMany}, field: "requests"},
		{
			name:    "invalid entry is located",
			request: BatchAllocateRequest{Requests: []AllocateRequest{valid, {Mode: "greedy"}}},
			field:   "requests[1].mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				assert.Len(t, tt.request.ToModel(), len(tt.request.Requests))
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestProjectRequest_JSON(t *testing.T) {
	body := `{"item": {"width": 60, "depth": 40, "height": 20}, "quantity": 12, "shipment_index": 2}`

	var req ProjectRequest
	require.NoError(t, json.NewDecoder(strings.NewReader(body)).Decode(&req))
	assert.Equal(t, 12, req.Quantity)
	assert.Equal(t, 60.0, req.Item.Width)
	assert.Equal(t, 2, req.ShipmentIndex)
	assert.NoError(t, req.Validate())

	req.ShipmentIndex = -1
	assert.Equal(t, ErrNegativeShipmentIndex, req.Validate())
}

func TestExportRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request ExportRequest
		field   string
	}{
		{name: "defaults", request: ExportRequest{}},
		{name: "multi mode", request: ExportRequest{PlanRequest: model.PlanRequest{Mode: model.ModeMulti}}},
		{name: "unknown mode", request: ExportRequest{PlanRequest: model.PlanRequest{Mode: "greedy"}}, field: "mode"},
		{name: "long reference", request: ExportRequest{Reference: strings.Repeat("x", MaxReferenceLength+1)}, field: "reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "items", Message: "must contain at least one item"}
	assert.Equal(t, "items: must contain at least one item", err.Error())
}
