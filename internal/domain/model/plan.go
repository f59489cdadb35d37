package model

// Orientation is a rotation of an item expressed as (footprint width, footprint depth, stack height).
type Orientation [3]float64

// Width returns the footprint extent along X.
func (o Orientation) Width() float64 { return o[0] }

// Depth returns the footprint extent along Y.
func (o Orientation) Depth() float64 { return o[1] }

// Height returns the stack height.
func (o Orientation) Height() float64 { return o[2] }

// Footprint returns the floor area covered by one unit.
func (o Orientation) Footprint() float64 { return o[0] * o[1] }

// Less orders orientations lexicographically by (a, b, c).
func (o Orientation) Less(other Orientation) bool {
	for i := 0; i < 3; i++ {
		if o[i] != other[i] {
			return o[i] < other[i]
		}
	}
	return false
}

// LayoutKind tags the two plan variants.
type LayoutKind string

const (
	// LayoutStandard is a single orientation grid plan.
	LayoutStandard LayoutKind = "standard"
	// LayoutExtended is a plan of independently built layers.
	LayoutExtended LayoutKind = "extended"
)

// Layout is the sealed variant of *Plan and *ExtendedPlan.
// Consumers type switch on the concrete type.
type Layout interface {
	Kind() LayoutKind
	// Units returns the number of units the layout holds.
	Units() int
	// Container returns the id of the container the layout was computed for.
	Container() int
	sealed()
}

// Plan is the standard single orientation layout of one item type in one container.
//
// @Description Grid layout of one item orientation inside one container
type Plan struct {
	ContainerID int         `json:"container_id" example:"1"`
	Orientation Orientation `json:"orientation" swaggertype:"array,number"`
	NX          int         `json:"nx" example:"10"`
	NY          int         `json:"ny" example:"10"`
	Layers      int         `json:"layers" example:"10"`
	Capacity    int         `json:"capacity" example:"1000"`
	VoidRatio   float64     `json:"void_ratio" example:"0"`
	// FilledLayers is the number of layers occupied by the loaded quantity
	FilledLayers int `json:"filled_layers" example:"10"`
	// LastLayerCount is the number of units in the topmost occupied layer
	LastLayerCount int  `json:"last_layer_count" example:"100"`
	WeightOK       bool `json:"weight_ok" example:"true"`
} // @name Plan

// Kind implements Layout.
func (p *Plan) Kind() LayoutKind { return LayoutStandard }

// Units implements Layout.
func (p *Plan) Units() int { return p.Capacity }

// Container implements Layout.
func (p *Plan) Container() int { return p.ContainerID }

func (*Plan) sealed() {}

// PerLayer returns the number of units in one full layer.
func (p *Plan) PerLayer() int {
	return p.NX * p.NY
}

// ForQuantity returns a copy describing a load of quantity units of this layout.
// Quantity is clamped to [0, Capacity].
func (p *Plan) ForQuantity(quantity int) *Plan {
	out := *p
	perLayer := p.PerLayer()
	if quantity > p.Capacity {
		quantity = p.Capacity
	}
	if quantity <= 0 || perLayer == 0 {
		out.FilledLayers = 0
		out.LastLayerCount = 0
		return &out
	}
	out.FilledLayers = (quantity + perLayer - 1) / perLayer
	out.LastLayerCount = quantity - (out.FilledLayers-1)*perLayer
	return &out
}

// PatternKind tags how a layer is arranged.
type PatternKind string

const (
	// PatternUniform is a single orientation grid.
	PatternUniform PatternKind = "uniform"
	// PatternMixed is a row of columns with individual orientations.
	PatternMixed PatternKind = "mixed"
	// PatternPlaced is an explicit list of placed rectangles.
	PatternPlaced PatternKind = "placed"
)

// Column is a block of units sharing one orientation inside a mixed layer.
type Column struct {
	Orientation Orientation `json:"orientation" swaggertype:"array,number"`
	// Cols is the count along X
	Cols int `json:"cols"`
	// Rows is the count along Y
	Rows int `json:"rows"`
} // @name Column

// Count returns the number of units in the column.
func (c Column) Count() int {
	return c.Cols * c.Rows
}

// PlacedItem is one unit placed by the multi item packer, relative to the usable floor origin.
type PlacedItem struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Height    float64 `json:"height"`
	ItemIndex int     `json:"item_index"`
} // @name PlacedItem

// LayerPattern is one horizontal layer of an extended plan.
// Uniform layers hold exactly one column spanning the grid, mixed layers hold several columns
// laid out left to right and placed layers hold explicit rectangles.
type LayerPattern struct {
	Kind             PatternKind  `json:"kind"`
	Height           float64      `json:"height"`
	PerLayerCapacity int          `json:"per_layer_capacity"`
	Columns          []Column     `json:"columns,omitempty"`
	Items            []PlacedItem `json:"items,omitempty"`
} // @name LayerPattern

// ExtendedPlan stacks independently built layers of possibly different heights.
//
// @Description Layer by layer plan allowing mixed orientations and item types
type ExtendedPlan struct {
	ContainerID   int            `json:"container_id" example:"1"`
	Layers        []LayerPattern `json:"layers"`
	TotalCapacity int            `json:"total_capacity" example:"1000"`
	UsedWidth     float64        `json:"used_width"`
	UsedDepth     float64        `json:"used_depth"`
	UsedHeight    float64        `json:"used_height"`
	VoidRatio     float64        `json:"void_ratio"`
	// GapXY and GapZ are the spacings the layers were built with
	GapXY float64 `json:"gap_xy,omitempty"`
	GapZ  float64 `json:"gap_z,omitempty"`
} // @name ExtendedPlan

// Kind implements Layout.
func (p *ExtendedPlan) Kind() LayoutKind { return LayoutExtended }

// Units implements Layout.
func (p *ExtendedPlan) Units() int { return p.TotalCapacity }

// Container implements Layout.
func (p *ExtendedPlan) Container() int { return p.ContainerID }

func (*ExtendedPlan) sealed() {}
