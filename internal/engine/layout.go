package engine

import (
	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// interior is the usable box of a container once margins and padding are removed.
// The offsets are the clearances kept on the low side of every axis.
type interior struct {
	width, depth, height      float64
	offsetX, offsetY, offsetZ float64
}

func newInterior(c model.Container, side, front, top, padding float64) interior {
	ox, oy, oz := side+padding, front+padding, top+padding
	return interior{
		width:   c.InnerWidth - 2*ox,
		depth:   c.InnerDepth - 2*oy,
		height:  c.InnerHeight - 2*oz,
		offsetX: ox,
		offsetY: oy,
		offsetZ: oz,
	}
}

func interiorFor(c model.Container, item model.Item, opts model.PlanOptions) interior {
	return newInterior(c, item.SideMargin, item.FrontMargin, item.TopMargin, opts.ContainerPadding)
}

// valid reports whether every usable dimension is non-negative.
func (in interior) valid() bool {
	return in.width >= 0 && in.depth >= 0 && in.height >= 0
}

// voidRatio returns the unused share of the container volume, clamped to [0,1].
func voidRatio(used float64, c model.Container) float64 {
	total := c.Volume()
	if used <= 0 || total <= 0 {
		return 1
	}
	r := 1 - used/total
	switch {
	case r < epsilon:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// weightOK reports whether units of the item fit the container payload.
// The check only applies when both the unit weight and the limit are known.
func weightOK(units int, item model.Item, c model.Container) bool {
	if !item.HasWeight() || !c.HasWeightLimit() {
		return true
	}
	return float64(units)*item.UnitWeight+c.OwnWeight <= c.MaxWeight+epsilon
}

// stackLimit applies the item's MaxStackLayers cap.
func stackLimit(layers int, item model.Item) int {
	if item.MaxStackLayers > 0 && layers > item.MaxStackLayers {
		return item.MaxStackLayers
	}
	return layers
}

// Layout computes the uniform grid of one orientation in one container.
// A container the item cannot fit into yields a plan with zero capacity and a void ratio of 1.
func Layout(c model.Container, o model.Orientation, item model.Item, opts model.PlanOptions) model.Plan {
	in := interiorFor(c, item, opts)
	plan := model.Plan{ContainerID: c.ID, Orientation: o}

	if in.valid() {
		plan.NX = fitCount(in.width, o.Width(), item.GapXY)
		plan.NY = fitCount(in.depth, o.Depth(), item.GapXY)
		plan.Layers = stackLimit(fitCount(in.height, o.Height(), item.GapZ), item)
	}

	plan.Capacity = plan.NX * plan.NY * plan.Layers
	if plan.Capacity > 0 {
		plan.FilledLayers = plan.Layers
		plan.LastLayerCount = plan.PerLayer()
	}
	plan.VoidRatio = voidRatio(o[0]*o[1]*o[2]*float64(plan.Capacity), c)
	plan.WeightOK = weightOK(plan.Capacity, item, c)
	return plan
}
