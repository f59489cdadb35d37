// Package model defines the core domain entities for the load planning service.
package model

// Item describes one physical item type to be loaded into containers.
// Lengths are millimeters and weights kilograms. Optional numeric fields use 0 for "absent".
//
// @Description Item type with outer dimensions, spacing rules and optional weight
// @Example {"sku": "BOX-60", "width": 60, "depth": 40, "height": 20}
type Item struct {
	// SKU optionally identifies the item in the item catalog
	SKU string `json:"sku,omitempty" yaml:"sku,omitempty" example:"BOX-60"`
	// Name is a human readable label
	Name string `json:"name,omitempty" yaml:"name,omitempty" example:"Carton 60x40x20"`
	// Width is the outer width of one unit
	Width float64 `json:"width" yaml:"width,omitempty" example:"60"`
	// Depth is the outer depth of one unit
	Depth float64 `json:"depth" yaml:"depth,omitempty" example:"40"`
	// Height is the outer height of one unit
	Height float64 `json:"height" yaml:"height,omitempty" example:"20"`
	// KeepUpright restricts rotation to the vertical axis
	KeepUpright bool `json:"keep_upright,omitempty" yaml:"keep_upright,omitempty"`
	// SideMargin is kept free on the left and right walls
	SideMargin float64 `json:"side_margin,omitempty" yaml:"side_margin,omitempty"`
	// FrontMargin is kept free on the front and back walls
	FrontMargin float64 `json:"front_margin,omitempty" yaml:"front_margin,omitempty"`
	// TopMargin is kept free above and below the load
	TopMargin float64 `json:"top_margin,omitempty" yaml:"top_margin,omitempty"`
	// GapXY is the horizontal spacing between neighboring units
	GapXY float64 `json:"gap_xy,omitempty" yaml:"gap_xy,omitempty"`
	// GapZ is the vertical spacing between layers
	GapZ float64 `json:"gap_z,omitempty" yaml:"gap_z,omitempty"`
	// MaxStackLayers caps the number of layers (0 = no cap)
	MaxStackLayers int `json:"max_stack_layers,omitempty" yaml:"max_stack_layers,omitempty"`
	// UnitWeight is the weight of one unit (0 = unknown)
	UnitWeight float64 `json:"unit_weight,omitempty" yaml:"unit_weight,omitempty"`
} // @name Item

// Volume returns the outer volume of one unit.
func (i Item) Volume() float64 {
	return i.Width * i.Depth * i.Height
}

// HasWeight reports whether the unit weight is known.
func (i Item) HasWeight() bool {
	return i.UnitWeight > 0
}

// Label returns the best human readable identifier of the item.
func (i Item) Label() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.SKU != "":
		return i.SKU
	default:
		return "item"
	}
}

// Container describes a container type with its interior dimensions.
// Container types are reusable: one type may back any number of shipments.
//
// @Description Container type with interior dimensions and optional weight limit
type Container struct {
	// ID is the stable lookup key of the container type
	ID int `json:"id" yaml:"id,omitempty" example:"1"`
	// Name is a human readable label
	Name string `json:"name,omitempty" yaml:"name,omitempty" example:"Euro pallet box"`
	// InnerWidth is the usable interior width
	InnerWidth float64 `json:"inner_width" yaml:"inner_width,omitempty" example:"600"`
	// InnerDepth is the usable interior depth
	InnerDepth float64 `json:"inner_depth" yaml:"inner_depth,omitempty" example:"400"`
	// InnerHeight is the usable interior height
	InnerHeight float64 `json:"inner_height" yaml:"inner_height,omitempty" example:"200"`
	// MaxWeight is the payload limit including the container itself (0 = unlimited)
	MaxWeight float64 `json:"max_weight,omitempty" yaml:"max_weight,omitempty"`
	// OwnWeight is the tare weight of the container
	OwnWeight float64 `json:"own_weight,omitempty" yaml:"own_weight,omitempty"`
} // @name Container

// Volume returns the interior volume.
func (c Container) Volume() float64 {
	return c.InnerWidth * c.InnerDepth * c.InnerHeight
}

// HasWeightLimit reports whether a payload limit is configured.
func (c Container) HasWeightLimit() bool {
	return c.MaxWeight > 0
}

// ItemQuantity pairs an item type with the number of units to ship.
type ItemQuantity struct {
	Item     Item `json:"item" yaml:"item,omitempty"`
	Quantity int  `json:"quantity" yaml:"quantity,omitempty" example:"1500"`
} // @name ItemQuantity

// PlanOptions carries the engine wide knobs.
type PlanOptions struct {
	// ContainerPadding is subtracted on every interior wall on top of the item margins
	ContainerPadding float64 `json:"container_padding,omitempty" yaml:"container_padding,omitempty"`
}
