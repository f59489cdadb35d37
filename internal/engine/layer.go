package engine

import (
	"math"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// PlanExtended builds the layer by layer plan of one item in one container.
// A positive limit stops adding layers once the plan holds at least limit units.
// It returns nil without error when the container cannot hold a single unit or the full plan
// exceeds the payload limit.
func PlanExtended(item model.Item, c model.Container, limit int, opts model.PlanOptions) (*model.ExtendedPlan, error) {
	if err := validateAll(item, []model.Container{c}, opts); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, invalid("limit", "must not be negative")
	}
	plan := planExtended(item, c, opts)
	if plan == nil || limit == 0 {
		return plan, nil
	}
	return truncate(plan, limit, item, c), nil
}

// PlanSingleItemExtended returns the best extended plan over all containers, ranked like
// PlanSingleItem. It returns nil without error when nothing fits.
func PlanSingleItemExtended(item model.Item, containers []model.Container, opts model.PlanOptions) (*model.ExtendedPlan, error) {
	if err := validateAll(item, containers, opts); err != nil {
		return nil, err
	}
	plan, _ := bestExtendedPlan(item, containers, opts)
	return plan, nil
}

func bestExtendedPlan(item model.Item, containers []model.Container, opts model.PlanOptions) (*model.ExtendedPlan, model.Container) {
	var (
		best      *model.ExtendedPlan
		bestScore score
		bestBox   model.Container
	)
	for _, c := range containers {
		p := planExtended(item, c, opts)
		if p == nil {
			continue
		}
		s := score{units: p.TotalCapacity, void: p.VoidRatio, containerID: c.ID}
		if best == nil || s.beats(bestScore) {
			best, bestScore, bestBox = p, s, c
		}
	}
	return best, bestBox
}

// planExtended tries every orientation as the primary layer and keeps the plan holding the most
// units, then the one with the least void. Earlier orientations win remaining ties.
// Each orientation also offers its plain grid stack, which is what remains when the mixed stack
// is over the payload limit.
func planExtended(item model.Item, c model.Container, opts model.PlanOptions) *model.ExtendedPlan {
	in := interiorFor(c, item, opts)
	if !in.valid() {
		return nil
	}
	b := layerBuilder{in: in, gap: item.GapXY, orientations: Orientations(item)}

	var best *model.ExtendedPlan
	for _, o := range b.orientations {
		candidates := [][]model.LayerPattern{
			b.stack(o, item.MaxStackLayers, item.GapZ),
			b.uniform(o, item.MaxStackLayers, item.GapZ),
		}
		for _, layers := range candidates {
			if len(layers) == 0 {
				continue
			}
			p := assemble(c, layers, item.GapXY, item.GapZ)
			if !weightOK(p.TotalCapacity, item, c) {
				continue
			}
			if best == nil || p.TotalCapacity > best.TotalCapacity ||
				(p.TotalCapacity == best.TotalCapacity && p.VoidRatio < best.VoidRatio-epsilon) {
				best = p
			}
		}
	}
	return best
}

// layerBuilder builds single item layers over a fixed usable footprint.
type layerBuilder struct {
	in           interior
	gap          float64
	orientations []model.Orientation
}

// grid lays the primary orientation alone, the same grid a standard plan uses.
func (b layerBuilder) grid(primary model.Orientation) (model.LayerPattern, bool) {
	nx := fitCount(b.in.width, primary.Width(), b.gap)
	ny := fitCount(b.in.depth, primary.Depth(), b.gap)
	if nx == 0 || ny == 0 {
		return model.LayerPattern{}, false
	}
	return model.LayerPattern{
		Kind:             model.PatternUniform,
		Columns:          []model.Column{{Orientation: primary, Cols: nx, Rows: ny}},
		PerLayerCapacity: nx * ny,
		Height:           primary.Height(),
	}, true
}

// uniform stacks the primary grid as high as the interior and the stack cap allow.
func (b layerBuilder) uniform(primary model.Orientation, maxLayers int, gapZ float64) []model.LayerPattern {
	base, ok := b.grid(primary)
	if !ok {
		return nil
	}
	n := fitCount(b.in.height, base.Height, gapZ)
	if maxLayers > 0 {
		n = min(n, maxLayers)
	}
	layers := make([]model.LayerPattern, n)
	for i := range layers {
		layers[i] = base
	}
	return layers
}

// build lays a grid of the primary orientation from the left wall and fills the strip left on
// the right with columns of other orientations no taller than the primary one.
func (b layerBuilder) build(primary model.Orientation) (model.LayerPattern, bool) {
	base, ok := b.grid(primary)
	if !ok {
		return model.LayerPattern{}, false
	}

	columns := base.Columns
	nx := columns[0].Cols
	used := span(nx, primary.Width(), b.gap)
	for {
		col, ok := b.fill(b.in.width-used-b.gap, primary.Height())
		if !ok {
			break
		}
		columns = append(columns, col)
		used += b.gap + span(col.Cols, col.Orientation.Width(), b.gap)
	}

	layer := model.LayerPattern{Kind: model.PatternUniform, Columns: columns}
	if len(columns) > 1 {
		layer.Kind = model.PatternMixed
	}
	for _, col := range columns {
		layer.PerLayerCapacity += col.Count()
		layer.Height = math.Max(layer.Height, col.Orientation.Height())
	}
	return layer, true
}

// fill picks the orientation seating the most units in a strip of the given width.
// Ties go to the lexicographically smallest orientation.
func (b layerBuilder) fill(strip, maxHeight float64) (model.Column, bool) {
	var (
		best  model.Column
		found bool
	)
	for _, o := range b.orientations {
		if !fits(o.Height(), maxHeight) {
			continue
		}
		col := model.Column{
			Orientation: o,
			Cols:        fitCount(strip, o.Width(), b.gap),
			Rows:        fitCount(b.in.depth, o.Depth(), b.gap),
		}
		n := col.Count()
		if n == 0 {
			continue
		}
		if !found || n > best.Count() || (n == best.Count() && o.Less(best.Orientation)) {
			best, found = col, true
		}
	}
	return best, found
}

// stack repeats the primary layer while it fits and tops up the remaining height with the best
// layer of any orientation that still fits.
func (b layerBuilder) stack(primary model.Orientation, maxLayers int, gapZ float64) []model.LayerPattern {
	base, ok := b.build(primary)
	if !ok || !fits(base.Height, b.in.height) {
		return nil
	}

	var (
		layers []model.LayerPattern
		used   float64
	)
	room := func() float64 {
		if len(layers) == 0 {
			return b.in.height
		}
		return b.in.height - used - gapZ
	}
	full := func() bool {
		return maxLayers > 0 && len(layers) >= maxLayers
	}
	push := func(l model.LayerPattern) {
		if len(layers) > 0 {
			used += gapZ
		}
		used += l.Height
		layers = append(layers, l)
	}

	for !full() && fits(base.Height, room()) {
		push(base)
	}
	for !full() {
		top, ok := b.topUp(room())
		if !ok {
			break
		}
		push(top)
	}
	return layers
}

// topUp returns the layer with the most units among orientations no taller than room.
func (b layerBuilder) topUp(room float64) (model.LayerPattern, bool) {
	var (
		best  model.LayerPattern
		found bool
	)
	for _, o := range b.orientations {
		if !fits(o.Height(), room) {
			continue
		}
		l, ok := b.build(o)
		if !ok {
			continue
		}
		if !found || l.PerLayerCapacity > best.PerLayerCapacity ||
			(l.PerLayerCapacity == best.PerLayerCapacity && l.Height < best.Height-epsilon) {
			best, found = l, true
		}
	}
	return best, found
}

// assemble aggregates capacity, used extents and void ratio over a stack of layers.
func assemble(c model.Container, layers []model.LayerPattern, gapXY, gapZ float64) *model.ExtendedPlan {
	p := &model.ExtendedPlan{ContainerID: c.ID, Layers: layers, GapXY: gapXY, GapZ: gapZ}
	var volume float64
	for i, l := range layers {
		w, d := layerExtent(l, gapXY)
		p.UsedWidth = math.Max(p.UsedWidth, w)
		p.UsedDepth = math.Max(p.UsedDepth, d)
		if i > 0 {
			p.UsedHeight += gapZ
		}
		p.UsedHeight += l.Height
		p.TotalCapacity += l.PerLayerCapacity
		volume += layerVolume(l)
	}
	p.VoidRatio = voidRatio(volume, c)
	return p
}

// truncate keeps the lowest layers needed to hold n units.
func truncate(p *model.ExtendedPlan, n int, item model.Item, c model.Container) *model.ExtendedPlan {
	if n >= p.TotalCapacity {
		return p
	}
	held := 0
	k := 0
	for k < len(p.Layers) && held < n {
		held += p.Layers[k].PerLayerCapacity
		k++
	}
	layers := append([]model.LayerPattern(nil), p.Layers[:k]...)
	return assemble(c, layers, item.GapXY, item.GapZ)
}

// layerExtent returns the footprint actually covered by a layer.
func layerExtent(l model.LayerPattern, gap float64) (width, depth float64) {
	if l.Kind == model.PatternPlaced {
		for _, it := range l.Items {
			width = math.Max(width, it.X+it.Width)
			depth = math.Max(depth, it.Y+it.Depth)
		}
		return width, depth
	}
	for i, col := range l.Columns {
		if i > 0 {
			width += gap
		}
		width += span(col.Cols, col.Orientation.Width(), gap)
		depth = math.Max(depth, span(col.Rows, col.Orientation.Depth(), gap))
	}
	return width, depth
}

func layerVolume(l model.LayerPattern) float64 {
	var v float64
	if l.Kind == model.PatternPlaced {
		for _, it := range l.Items {
			v += it.Width * it.Depth * it.Height
		}
		return v
	}
	for _, col := range l.Columns {
		o := col.Orientation
		v += float64(col.Count()) * o[0] * o[1] * o[2]
	}
	return v
}
