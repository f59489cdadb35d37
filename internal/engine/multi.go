package engine

import (
	"math"
	"sort"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// AllocateMultiItemExtended loads several item types together using shelf packed layers.
// Each round picks the container that takes the most units, then the least void, then the
// smallest id, and ships one load on it. Rounds stop when every quantity is met or a round
// places nothing; what is left is reported per item in the input order.
func AllocateMultiItemExtended(items []model.Item, quantities []int, containers []model.Container, opts model.PlanOptions) (model.MultiAllocation, error) {
	if len(items) != len(quantities) {
		return model.MultiAllocation{}, invalid("quantities", "must have one entry per item")
	}
	for i, item := range items {
		if err := ValidateItem(item); err != nil {
			return model.MultiAllocation{}, err
		}
		if quantities[i] < 0 {
			return model.MultiAllocation{}, invalid("quantities", "must not be negative")
		}
	}
	for _, c := range containers {
		if err := ValidateContainer(c); err != nil {
			return model.MultiAllocation{}, err
		}
		for _, item := range items {
			if err := checkScale(item, c); err != nil {
				return model.MultiAllocation{}, err
			}
		}
	}
	if err := ValidateOptions(opts); err != nil {
		return model.MultiAllocation{}, err
	}

	remaining := append([]int(nil), quantities...)
	shipments := []model.Shipment{}
	for sum(remaining) > 0 {
		load, ok := bestLoad(items, remaining, containers, opts)
		if !ok {
			break
		}
		for i, n := range load.counts {
			remaining[i] -= n
		}
		shipments = append(shipments, model.Shipment{
			Container:      load.container,
			Layout:         load.plan,
			Quantity:       sum(load.counts),
			ItemQuantities: load.counts,
		})
	}
	return model.MultiAllocation{Shipments: shipments, Leftover: remaining}, nil
}

type containerLoad struct {
	container model.Container
	plan      *model.ExtendedPlan
	counts    []int
}

func bestLoad(items []model.Item, remaining []int, containers []model.Container, opts model.PlanOptions) (containerLoad, bool) {
	var (
		best      containerLoad
		bestScore score
		found     bool
	)
	for _, c := range containers {
		load, ok := packContainer(items, remaining, c, opts)
		if !ok {
			continue
		}
		s := score{units: sum(load.counts), void: load.plan.VoidRatio, containerID: c.ID}
		if !found || s.beats(bestScore) {
			best, bestScore, found = load, s, true
		}
	}
	return best, found
}

// packer holds the state of one container being filled layer by layer.
type packer struct {
	in        interior
	gap       float64
	gapZ      float64
	items     []model.Item
	orient    []model.Orientation
	order     []int
	remaining []int
	layers    []int
	load      float64
	container model.Container
}

// packContainer fills one container with the remaining units. Only item types that fit the
// container on their own take part; their largest margins and gaps apply to the whole load.
func packContainer(items []model.Item, remaining []int, c model.Container, opts model.PlanOptions) (containerLoad, bool) {
	p := packer{
		items:     items,
		orient:    make([]model.Orientation, len(items)),
		remaining: append([]int(nil), remaining...),
		layers:    make([]int, len(items)),
		load:      c.OwnWeight,
		container: c,
	}

	var side, front, top float64
	for i, item := range items {
		if remaining[i] == 0 {
			continue
		}
		o, ok := preferredOrientation(item, c, opts)
		if !ok {
			continue
		}
		p.orient[i] = o
		p.order = append(p.order, i)
		side = math.Max(side, item.SideMargin)
		front = math.Max(front, item.FrontMargin)
		top = math.Max(top, item.TopMargin)
		p.gap = math.Max(p.gap, item.GapXY)
		p.gapZ = math.Max(p.gapZ, item.GapZ)
	}
	if len(p.order) == 0 {
		return containerLoad{}, false
	}
	p.in = newInterior(c, side, front, top, opts.ContainerPadding)
	if !p.in.valid() {
		return containerLoad{}, false
	}

	sort.SliceStable(p.order, func(a, b int) bool {
		return p.orient[p.order[a]].Footprint() > p.orient[p.order[b]].Footprint()
	})

	var (
		layers []model.LayerPattern
		used   float64
	)
	for {
		room := p.in.height
		if len(layers) > 0 {
			room -= used + p.gapZ
		}
		layer := p.shelfLayer(room)
		if len(layer.Items) == 0 {
			break
		}
		if len(layers) > 0 {
			used += p.gapZ
		}
		used += layer.Height
		layers = append(layers, layer)
	}
	if len(layers) == 0 {
		return containerLoad{}, false
	}

	counts := make([]int, len(items))
	for i := range items {
		counts[i] = remaining[i] - p.remaining[i]
	}
	return containerLoad{
		container: c,
		plan:      assemble(c, layers, p.gap, p.gapZ),
		counts:    counts,
	}, true
}

// preferredOrientation returns the orientation of the item's best standard plan in c.
func preferredOrientation(item model.Item, c model.Container, opts model.PlanOptions) (model.Orientation, bool) {
	var (
		best  model.Plan
		found bool
	)
	for _, o := range Orientations(item) {
		plan := Layout(c, o, item, opts)
		if plan.Capacity == 0 {
			continue
		}
		if !found || plan.Capacity > best.Capacity {
			best, found = plan, true
		}
	}
	return best.Orientation, found
}

// shelf is the row currently being filled inside a layer.
type shelf struct {
	y, depth, x float64
	count       int
}

// shelfLayer builds one layer no taller than room. Item types go in order of decreasing
// footprint; each keeps placing units until the layer has no space left for it.
func (p *packer) shelfLayer(room float64) model.LayerPattern {
	layer := model.LayerPattern{Kind: model.PatternPlaced}
	var sh shelf
	present := make(map[int]bool)

	for _, idx := range p.order {
		item := p.items[idx]
		o := p.orient[idx]
		if p.remaining[idx] == 0 || !fits(o.Height(), room) {
			continue
		}
		if item.MaxStackLayers > 0 && p.layers[idx] >= item.MaxStackLayers {
			continue
		}
		for p.remaining[idx] > 0 && p.weightAllows(item) {
			x, y, w, d, ok := p.place(&sh, o.Width(), o.Depth())
			if !ok {
				break
			}
			layer.Items = append(layer.Items, model.PlacedItem{
				X: x, Y: y, Width: w, Depth: d, Height: o.Height(), ItemIndex: idx,
			})
			layer.Height = math.Max(layer.Height, o.Height())
			p.remaining[idx]--
			p.load += item.UnitWeight
			present[idx] = true
		}
	}
	for idx := range present {
		p.layers[idx]++
	}
	layer.PerLayerCapacity = len(layer.Items)
	return layer
}

func (p *packer) weightAllows(item model.Item) bool {
	if !item.HasWeight() || !p.container.HasWeightLimit() {
		return true
	}
	return p.load+item.UnitWeight <= p.container.MaxWeight+epsilon
}

// place seats a w x d footprint on the active shelf, turning it by 90 degrees if that helps,
// or opens the next shelf behind it.
func (p *packer) place(sh *shelf, w, d float64) (x, y, width, depth float64, ok bool) {
	footprints := [][2]float64{{w, d}}
	if w != d {
		footprints = append(footprints, [2]float64{d, w})
	}

	if sh.count > 0 {
		x = sh.x + p.gap
		for _, fp := range footprints {
			if fits(x+fp[0], p.in.width) && fits(sh.y+fp[1], p.in.depth) {
				sh.x = x + fp[0]
				sh.depth = math.Max(sh.depth, fp[1])
				sh.count++
				return x, sh.y, fp[0], fp[1], true
			}
		}
	}

	next := 0.0
	if sh.count > 0 {
		next = sh.y + sh.depth + p.gap
	}
	for _, fp := range footprints {
		if fits(fp[0], p.in.width) && fits(next+fp[1], p.in.depth) {
			*sh = shelf{y: next, depth: fp[1], x: fp[0], count: 1}
			return 0, next, fp[0], fp[1], true
		}
	}
	return 0, 0, 0, 0, false
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
