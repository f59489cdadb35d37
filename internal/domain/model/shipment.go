package model

import "encoding/json"

// Shipment is one physical container load.
//
// @Description One container load with its layout
type Shipment struct {
	Container Container `json:"container"`
	Layout    Layout    `json:"-"`
	// Quantity is the number of units loaded
	Quantity int `json:"quantity" example:"1000"`
	// ItemQuantities holds per item type counts for multi item shipments
	ItemQuantities []int `json:"item_quantities,omitempty"`
} // @name Shipment

type shipmentJSON struct {
	Container      Container     `json:"container"`
	Kind           LayoutKind    `json:"kind"`
	Plan           *Plan         `json:"plan,omitempty"`
	ExtendedPlan   *ExtendedPlan `json:"extended_plan,omitempty"`
	Quantity       int           `json:"quantity"`
	ItemQuantities []int         `json:"item_quantities,omitempty"`
}

// MarshalJSON writes the layout under a kind specific key next to a "kind" tag.
func (s Shipment) MarshalJSON() ([]byte, error) {
	out := shipmentJSON{
		Container:      s.Container,
		Quantity:       s.Quantity,
		ItemQuantities: s.ItemQuantities,
	}
	switch l := s.Layout.(type) {
	case *Plan:
		out.Kind = LayoutStandard
		out.Plan = l
	case *ExtendedPlan:
		out.Kind = LayoutExtended
		out.ExtendedPlan = l
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the layout variant from its "kind" tag.
func (s *Shipment) UnmarshalJSON(data []byte) error {
	var in shipmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Container = in.Container
	s.Quantity = in.Quantity
	s.ItemQuantities = in.ItemQuantities
	s.Layout = nil
	switch in.Kind {
	case LayoutStandard:
		if in.Plan != nil {
			s.Layout = in.Plan
		}
	case LayoutExtended:
		if in.ExtendedPlan != nil {
			s.Layout = in.ExtendedPlan
		}
	}
	return nil
}

// Allocation is the result of distributing one item type over containers.
type Allocation struct {
	Shipments []Shipment `json:"shipments"`
	Leftover  int        `json:"leftover"`
}

// Shipped returns the number of units placed across all shipments.
func (a Allocation) Shipped() int {
	total := 0
	for _, s := range a.Shipments {
		total += s.Quantity
	}
	return total
}

// MultiAllocation is the result of distributing several item types over containers.
type MultiAllocation struct {
	Shipments []Shipment `json:"shipments"`
	// Leftover is indexed like the input items
	Leftover []int `json:"leftover"`
}

// TotalLeftover sums the per item leftovers.
func (a MultiAllocation) TotalLeftover() int {
	total := 0
	for _, l := range a.Leftover {
		total += l
	}
	return total
}

// ItemPosition is the absolute placement of one unit inside a container.
type ItemPosition struct {
	Index     int     `json:"index"`
	ItemIndex int     `json:"item_index"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Height    float64 `json:"height"`
} // @name ItemPosition

// TabGroup is a run of consecutive shipments on the same container type.
type TabGroup struct {
	ContainerID int `json:"container_id"`
	StartIndex  int `json:"start_index"`
	EndIndex    int `json:"end_index"`
	Count       int `json:"count"`
} // @name TabGroup
