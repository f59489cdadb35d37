// Package engine implements the container load planning heuristics.
//
// Every function is pure: inputs are value objects, outputs are freshly built values, nothing is
// logged and nothing is shared. Callers may run any number of plans concurrently.
package engine

import (
	"math"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// epsilon absorbs floating point noise in floor divisions and fit checks.
const epsilon = 1e-9

// maxUnitsPerAxis bounds the unit count along any one axis of a container.
const maxUnitsPerAxis = 1 << 16

// Orientations returns the distinct rotations of an item in canonical order.
// The identity [w,d,h] always comes first. Upright items only turn around the vertical axis.
func Orientations(item model.Item) []model.Orientation {
	w, d, h := item.Width, item.Depth, item.Height

	candidates := []model.Orientation{{w, d, h}, {d, w, h}}
	if !item.KeepUpright {
		candidates = append(candidates,
			model.Orientation{w, h, d},
			model.Orientation{h, w, d},
			model.Orientation{d, h, w},
			model.Orientation{h, d, w},
		)
	}

	out := make([]model.Orientation, 0, len(candidates))
	for _, o := range candidates {
		if !containsOrientation(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func containsOrientation(set []model.Orientation, o model.Orientation) bool {
	for _, s := range set {
		if s == o {
			return true
		}
	}
	return false
}

// fitCount returns how many units of size dim separated by gap fit into length.
func fitCount(length, dim, gap float64) int {
	if length < 0 || dim <= 0 {
		return 0
	}
	n := math.Floor((length+gap)/(dim+gap) + epsilon)
	if !(n >= 0) {
		return 0
	}
	if n > maxUnitsPerAxis {
		return maxUnitsPerAxis
	}
	return int(n)
}

// span returns the extent of n units of size dim separated by gap.
func span(n int, dim, gap float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*dim + float64(n-1)*gap
}

// fits reports whether size fits into room within epsilon.
func fits(size, room float64) bool {
	return size <= room+epsilon
}
