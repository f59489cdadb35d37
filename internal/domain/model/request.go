package model

// PlanRequest is a planning request as accepted by the service, the HTTP API and the CLI.
// Item and Quantity are used by the standard and extended modes, Items by the multi mode.
// When Containers is empty the containers are taken from the catalog, restricted to
// ContainerIDs when given.
type PlanRequest struct {
	Mode         AllocationMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Item         Item           `json:"item" yaml:"item,omitempty"`
	Quantity     int            `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Items        []ItemQuantity `json:"items,omitempty" yaml:"items,omitempty"`
	Containers   []Container    `json:"containers,omitempty" yaml:"containers,omitempty"`
	ContainerIDs []int          `json:"container_ids,omitempty" yaml:"container_ids,omitempty"`
	Options      PlanOptions    `json:"options" yaml:"options,omitempty"`
}

// EffectiveMode returns the requested mode, defaulting to multi when Items is set
// and to standard otherwise.
func (r PlanRequest) EffectiveMode() AllocationMode {
	switch {
	case r.Mode != "":
		return r.Mode
	case len(r.Items) > 0:
		return ModeMulti
	default:
		return ModeStandard
	}
}

// TotalQuantity returns the number of units requested over all item types.
func (r PlanRequest) TotalQuantity() int {
	if r.EffectiveMode() != ModeMulti {
		return r.Quantity
	}
	total := 0
	for _, iq := range r.Items {
		total += iq.Quantity
	}
	return total
}

// ItemList returns the item types of the request in index order.
func (r PlanRequest) ItemList() []Item {
	if r.EffectiveMode() != ModeMulti {
		return []Item{r.Item}
	}
	items := make([]Item, len(r.Items))
	for i, iq := range r.Items {
		items[i] = iq.Item
	}
	return items
}

// Projection is the 3D placement of one shipment of a planning result.
//
// @Description Per unit positions of one shipment plus the container tab groups of the plan
type Projection struct {
	PlanID        string         `json:"plan_id"`
	ShipmentIndex int            `json:"shipment_index" example:"0"`
	Shipment      Shipment       `json:"shipment"`
	Positions     []ItemPosition `json:"positions"`
	Groups        []TabGroup     `json:"groups"`
} // @name Projection

// BatchEntry is the outcome of one request of a batch.
type BatchEntry struct {
	Index  int         `json:"index"`
	Result *PlanResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
} // @name BatchEntry
