// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// MaxBatchSize caps the number of allocations in one batch request.
const MaxBatchSize = 100

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrMultiItemsOnAllocate is returned when items are posted to a single item endpoint.
	ErrMultiItemsOnAllocate = &ValidationError{
		Field:   "items",
		Message: "use the multi item endpoint for several item types",
	}
	// ErrItemsRequired is returned when a multi item request has no items.
	ErrItemsRequired = &ValidationError{
		Field:   "items",
		Message: "must contain at least one item",
	}
	// ErrNegativeShipmentIndex is returned when shipment_index is negative.
	ErrNegativeShipmentIndex = &ValidationError{
		Field:   "shipment_index",
		Message: "must not be negative",
	}
)

// PlanItemRequest asks for the best plan of one item in one container.
//
// @Description Request for the best single container plan of one item
type PlanItemRequest struct {
	// Mode is standard (one orientation grid) or extended (mixed orientation layers)
	Mode model.AllocationMode `json:"mode,omitempty" enums:"standard,extended" example:"standard"`
	Item model.Item           `json:"item"`
	// Containers to choose from; when empty the catalog is used
	Containers   []model.Container `json:"containers,omitempty"`
	ContainerIDs []int             `json:"container_ids,omitempty" example:"1,2"`
	Options      model.PlanOptions `json:"options"`
} // @name PlanItemRequest

// Validate performs custom validation on the request.
func (r *PlanItemRequest) Validate() error {
	return validateSingleMode(r.Mode)
}

// ToModel converts the request to a planning request.
func (r *PlanItemRequest) ToModel() model.PlanRequest {
	return model.PlanRequest{
		Mode:         r.Mode,
		Item:         r.Item,
		Containers:   r.Containers,
		ContainerIDs: r.ContainerIDs,
		Options:      r.Options,
	}
}

// AllocateRequest asks for the shipments of a quantity of one item.
//
// @Description Request to allocate a quantity of one item over shipments
// @Example {"item": {"width": 60, "depth": 40, "height": 20}, "quantity": 1500, "container_ids": [1, 2]}
type AllocateRequest struct {
	Mode model.AllocationMode `json:"mode,omitempty" enums:"standard,extended" example:"standard"`
	// Item may carry only a sku to use the item catalog
	Item         model.Item           `json:"item"`
	Quantity     int                  `json:"quantity" example:"1500" minimum:"0"`
	Items        []model.ItemQuantity `json:"items,omitempty" swaggerignore:"true"`
	Containers   []model.Container    `json:"containers,omitempty"`
	ContainerIDs []int                `json:"container_ids,omitempty" example:"1,2"`
	Options      model.PlanOptions    `json:"options"`
} // @name AllocateRequest

// Validate performs custom validation on the request.
func (r *AllocateRequest) Validate() error {
	if len(r.Items) > 0 {
		return ErrMultiItemsOnAllocate
	}
	return validateSingleMode(r.Mode)
}

// ToModel converts the request to a planning request.
func (r *AllocateRequest) ToModel() model.PlanRequest {
	return model.PlanRequest{
		Mode:         r.Mode,
		Item:         r.Item,
		Quantity:     r.Quantity,
		Containers:   r.Containers,
		ContainerIDs: r.ContainerIDs,
		Options:      r.Options,
	}
}

// MultiAllocateRequest asks for mixed shipments of several item types.
//
// @Description Request to allocate several item types over mixed shipments
type MultiAllocateRequest struct {
	Items        []model.ItemQuantity `json:"items" binding:"required"`
	Containers   []model.Container    `json:"containers,omitempty"`
	ContainerIDs []int                `json:"container_ids,omitempty" example:"1"`
	Options      model.PlanOptions    `json:"options"`
} // @name MultiAllocateRequest

// Validate performs custom validation on the request.
func (r *MultiAllocateRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrItemsRequired
	}
	return nil
}

// ToModel converts the request to a planning request.
func (r *MultiAllocateRequest) ToModel() model.PlanRequest {
	return model.PlanRequest{
		Mode:         model.ModeMulti,
		Items:        r.Items,
		Containers:   r.Containers,
		ContainerIDs: r.ContainerIDs,
		Options:      r.Options,
	}
}

// BatchAllocateRequest runs several allocations in one call.
//
// @Description Several independent allocations planned in parallel
type BatchAllocateRequest struct {
	Requests []AllocateRequest `json:"requests" binding:"required"`
} // @name BatchAllocateRequest

// Validate performs custom validation on the request.
func (r *BatchAllocateRequest) Validate() error {
	if len(r.Requests) == 0 {
		return &ValidationError{Field: "requests", Message: "must contain at least one request"}
	}
	if len(r.Requests) > MaxBatchSize {
		return &ValidationError{Field: "requests", Message: fmt.Sprintf("must contain at most %d requests", MaxBatchSize)}
	}
	for i := range r.Requests {
		if err := r.Requests[i].Validate(); err != nil {
			ve, ok := err.(*ValidationError)
			if !ok {
				return err
			}
			return &ValidationError{Field: fmt.Sprintf("requests[%d].%s", i, ve.Field), Message: ve.Message}
		}
	}
	return nil
}

// ToModel converts every request of the batch.
func (r *BatchAllocateRequest) ToModel() []model.PlanRequest {
	reqs := make([]model.PlanRequest, len(r.Requests))
	for i := range r.Requests {
		reqs[i] = r.Requests[i].ToModel()
	}
	return reqs
}

// ProjectRequest asks for the unit positions of one shipment of an allocation.
// Mode multi plans Items, any other mode plans Item and Quantity.
//
// @Description Allocation request plus the index of the shipment to project
type ProjectRequest struct {
	model.PlanRequest
	ShipmentIndex int `json:"shipment_index" example:"0"`
} // @name ProjectRequest

// Validate performs custom validation on the request.
func (r *ProjectRequest) Validate() error {
	if r.ShipmentIndex < 0 {
		return ErrNegativeShipmentIndex
	}
	return validateAnyMode(r.Mode)
}

// ExportRequest is the allocation to export; the format is a query parameter.
//
// @Description Allocation request to render as a document
type ExportRequest struct {
	model.PlanRequest
	// Reference is printed on labels and sheets, defaults to the plan id
	Reference string `json:"reference,omitempty" example:"PO-2024-0042"`
} // @name ExportRequest

// MaxReferenceLength caps the export reference printed on labels.
const MaxReferenceLength = 64

// Validate performs custom validation on the request.
func (r *ExportRequest) Validate() error {
	if len(r.Reference) > MaxReferenceLength {
		return &ValidationError{Field: "reference", Message: fmt.Sprintf("must be at most %d characters", MaxReferenceLength)}
	}
	return validateAnyMode(r.Mode)
}

func validateAnyMode(mode model.AllocationMode) error {
	if mode == "" || mode.Valid() {
		return nil
	}
	return &ValidationError{Field: "mode", Message: "must be standard, extended or multi"}
}

func validateSingleMode(mode model.AllocationMode) error {
	switch mode {
	case "", model.ModeStandard, model.ModeExtended:
		return nil
	}
	return &ValidationError{Field: "mode", Message: "must be standard or extended"}
}
