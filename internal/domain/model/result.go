package model

// AllocationMode selects the planner used for an allocation.
type AllocationMode string

const (
	// ModeStandard uses one orientation grid per shipment.
	ModeStandard AllocationMode = "standard"
	// ModeExtended uses layer by layer plans with mixed orientations.
	ModeExtended AllocationMode = "extended"
	// ModeMulti packs several item types together.
	ModeMulti AllocationMode = "multi"
)

// Valid reports whether the mode is known.
func (m AllocationMode) Valid() bool {
	switch m {
	case ModeStandard, ModeExtended, ModeMulti:
		return true
	}
	return false
}

// PlanResult is the outcome of an allocation as returned to clients.
//
// @Description Shipments, leftover units and container tab groups of an allocation
type PlanResult struct {
	// PlanID identifies this result for exports and audit logs
	PlanID string         `json:"plan_id" example:"3f1c0d3e-6a43-4c84-9d6b-9d0c4b1e2a10"`
	Mode   AllocationMode `json:"mode" example:"standard"`
	// Requested is the total number of units asked for
	Requested int `json:"requested" example:"1500"`
	// Shipped is the number of units placed in shipments
	Shipped   int        `json:"shipped" example:"1500"`
	Shipments []Shipment `json:"shipments"`
	// Leftover is the number of units no container could take
	Leftover int `json:"leftover" example:"0"`
	// LeftoverByItem breaks the leftover down per item for multi item plans
	LeftoverByItem []int      `json:"leftover_by_item,omitempty"`
	Groups         []TabGroup `json:"groups"`
} // @name PlanResult

// Complete reports whether every requested unit was placed.
func (r PlanResult) Complete() bool {
	return r.Leftover == 0
}
