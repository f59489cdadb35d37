package engine

import (
	"math"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// ProjectGeometry turns a shipment into absolute unit positions inside its container.
// The loaded block is centered in the usable interior on every axis. Units are listed layer by
// layer, X fastest, and a partially filled uniform top layer is centered on the layer below.
// Single item shipments use items[0]; multi item shipments index items by ItemIndex.
func ProjectGeometry(shipment model.Shipment, items []model.Item, opts model.PlanOptions) ([]model.ItemPosition, error) {
	if len(items) == 0 {
		return nil, invalid("items", "must not be empty")
	}
	for _, item := range items {
		if err := ValidateItem(item); err != nil {
			return nil, err
		}
	}
	if err := ValidateContainer(shipment.Container); err != nil {
		return nil, err
	}
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	if shipment.Quantity < 0 {
		return nil, invalid("quantity", "must not be negative")
	}

	switch layout := shipment.Layout.(type) {
	case *model.Plan:
		return projectPlan(layout, shipment, items[0], opts), nil
	case *model.ExtendedPlan:
		return projectExtended(layout, shipment, items, opts), nil
	default:
		return nil, invalid("layout", "is missing")
	}
}

func projectPlan(plan *model.Plan, s model.Shipment, item model.Item, opts model.PlanOptions) []model.ItemPosition {
	q := min(s.Quantity, plan.Capacity)
	perLayer := plan.PerLayer()
	if q <= 0 || perLayer == 0 {
		return []model.ItemPosition{}
	}

	o := plan.Orientation
	in := interiorFor(s.Container, item, opts)
	layers := (q + perLayer - 1) / perLayer
	usedW := span(plan.NX, o.Width(), item.GapXY)
	usedD := span(plan.NY, o.Depth(), item.GapXY)
	usedH := span(layers, o.Height(), item.GapZ)
	ox := in.offsetX + (in.width-usedW)/2
	oy := in.offsetY + (in.depth-usedD)/2
	oz := in.offsetZ + (in.height-usedH)/2

	positions := make([]model.ItemPosition, 0, q)
	for layer := 0; layer < layers; layer++ {
		z := oz + float64(layer)*(o.Height()+item.GapZ)
		n := min(perLayer, q-layer*perLayer)
		positions = appendGrid(positions, gridBlock{
			x: ox, y: oy, z: z,
			width: usedW, depth: usedD,
			orientation: o, nx: plan.NX, gap: item.GapXY,
		}, n, 0)
	}
	return positions
}

// gridBlock is a single orientation grid anchored at (x, y, z) spanning width x depth.
type gridBlock struct {
	x, y, z      float64
	width, depth float64
	orientation  model.Orientation
	nx           int
	gap          float64
}

// appendGrid emits n units of the block row by row. Fewer units than a full block are centered.
func appendGrid(out []model.ItemPosition, b gridBlock, n, itemIndex int) []model.ItemPosition {
	o := b.orientation
	cols := min(n, b.nx)
	rows := (n + b.nx - 1) / b.nx
	shiftX := (b.width - span(cols, o.Width(), b.gap)) / 2
	shiftY := (b.depth - span(rows, o.Depth(), b.gap)) / 2
	if shiftX < 0 {
		shiftX = 0
	}
	if shiftY < 0 {
		shiftY = 0
	}

	for k := 0; k < n; k++ {
		col, row := k%b.nx, k/b.nx
		out = append(out, model.ItemPosition{
			Index:     len(out),
			ItemIndex: itemIndex,
			X:         b.x + shiftX + float64(col)*(o.Width()+b.gap),
			Y:         b.y + shiftY + float64(row)*(o.Depth()+b.gap),
			Z:         b.z,
			Width:     o.Width(),
			Depth:     o.Depth(),
			Height:    o.Height(),
		})
	}
	return out
}

func projectExtended(plan *model.ExtendedPlan, s model.Shipment, items []model.Item, opts model.PlanOptions) []model.ItemPosition {
	q := min(s.Quantity, plan.TotalCapacity)
	if q <= 0 {
		return []model.ItemPosition{}
	}

	in := clearanceFor(s, items, opts)
	ox := in.offsetX + (in.width-plan.UsedWidth)/2
	oy := in.offsetY + (in.depth-plan.UsedDepth)/2
	oz := in.offsetZ + (in.height-plan.UsedHeight)/2

	positions := make([]model.ItemPosition, 0, q)
	z := oz
	for _, layer := range plan.Layers {
		n := min(q-len(positions), layer.PerLayerCapacity)
		if n <= 0 {
			break
		}
		if layer.Kind == model.PatternPlaced {
			for _, it := range layer.Items[:n] {
				positions = append(positions, model.ItemPosition{
					Index:     len(positions),
					ItemIndex: it.ItemIndex,
					X:         ox + it.X,
					Y:         oy + it.Y,
					Z:         z,
					Width:     it.Width,
					Depth:     it.Depth,
					Height:    it.Height,
				})
			}
		} else {
			positions = appendColumns(positions, layer, plan, ox, oy, z, n)
		}
		z += layer.Height + plan.GapZ
	}
	return positions
}

// appendColumns walks the columns of a grid layer left to right, centered on the plan block.
func appendColumns(out []model.ItemPosition, layer model.LayerPattern, plan *model.ExtendedPlan, ox, oy, z float64, n int) []model.ItemPosition {
	lw, ld := layerExtent(layer, plan.GapXY)
	x := ox + (plan.UsedWidth-lw)/2
	y := oy + (plan.UsedDepth-ld)/2

	if layer.Kind == model.PatternUniform && len(layer.Columns) == 1 {
		col := layer.Columns[0]
		return appendGrid(out, gridBlock{
			x: x, y: y, z: z, width: lw, depth: ld,
			orientation: col.Orientation, nx: col.Cols, gap: plan.GapXY,
		}, n, 0)
	}

	for _, col := range layer.Columns {
		if n <= 0 {
			break
		}
		take := min(n, col.Count())
		block := gridBlock{
			x: x, y: y, z: z,
			width:       span(col.Cols, col.Orientation.Width(), plan.GapXY),
			depth:       span(col.Rows, col.Orientation.Depth(), plan.GapXY),
			orientation: col.Orientation, nx: col.Cols, gap: plan.GapXY,
		}
		if take == col.Count() {
			out = appendGrid(out, block, take, 0)
		} else {
			// a partial column is filled from the front without centering
			out = appendGrid(out, gridBlock{
				x: block.x, y: block.y, z: z,
				width:       span(min(take, col.Cols), col.Orientation.Width(), plan.GapXY),
				depth:       span((take+col.Cols-1)/col.Cols, col.Orientation.Depth(), plan.GapXY),
				orientation: col.Orientation, nx: col.Cols, gap: plan.GapXY,
			}, take, 0)
		}
		n -= take
		x += block.width + plan.GapXY
	}
	return out
}

// clearanceFor returns the interior of the shipment's container under the margins of the items
// it carries.
func clearanceFor(s model.Shipment, items []model.Item, opts model.PlanOptions) interior {
	if len(s.ItemQuantities) == 0 {
		return interiorFor(s.Container, items[0], opts)
	}
	var side, front, top float64
	for i, n := range s.ItemQuantities {
		if n == 0 || i >= len(items) {
			continue
		}
		side = math.Max(side, items[i].SideMargin)
		front = math.Max(front, items[i].FrontMargin)
		top = math.Max(top, items[i].TopMargin)
	}
	return newInterior(s.Container, side, front, top, opts.ContainerPadding)
}

// GroupShipmentsByContainer merges consecutive shipments on the same container id into
// inclusive index ranges.
func GroupShipmentsByContainer(shipments []model.Shipment) []model.TabGroup {
	groups := []model.TabGroup{}
	for i, s := range shipments {
		if n := len(groups); n > 0 && groups[n-1].ContainerID == s.Container.ID {
			groups[n-1].EndIndex = i
			groups[n-1].Count++
			continue
		}
		groups = append(groups, model.TabGroup{
			ContainerID: s.Container.ID,
			StartIndex:  i,
			EndIndex:    i,
			Count:       1,
		})
	}
	return groups
}
