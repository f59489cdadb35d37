package engine

import (
	"math"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// score is the ranking key shared by every container choice in the engine.
type score struct {
	units       int
	void        float64
	containerID int
}

// beats reports whether s ranks strictly above other: more units, then less void, then the
// smaller container id. Equal scores keep the incumbent so earlier candidates win ties.
func (s score) beats(other score) bool {
	if s.units != other.units {
		return s.units > other.units
	}
	if math.Abs(s.void-other.void) > epsilon {
		return s.void < other.void
	}
	return s.containerID < other.containerID
}

// PlanSingleItem returns the best standard plan for one item over all containers and orientations.
// It returns nil without error when no container holds at least one unit.
func PlanSingleItem(item model.Item, containers []model.Container, opts model.PlanOptions) (*model.Plan, error) {
	if err := validateAll(item, containers, opts); err != nil {
		return nil, err
	}
	plan, _ := bestPlan(item, containers, opts)
	return plan, nil
}

// bestPlan also returns the container the winning plan was computed for.
func bestPlan(item model.Item, containers []model.Container, opts model.PlanOptions) (*model.Plan, model.Container) {
	orientations := Orientations(item)

	var (
		best      model.Plan
		bestScore score
		bestBox   model.Container
		found     bool
	)
	for _, c := range containers {
		for _, o := range orientations {
			p := Layout(c, o, item, opts)
			if p.Capacity <= 0 || !p.WeightOK {
				continue
			}
			s := score{units: p.Capacity, void: p.VoidRatio, containerID: c.ID}
			if !found || s.beats(bestScore) {
				best, bestScore, bestBox, found = p, s, c, true
			}
		}
	}
	if !found {
		return nil, model.Container{}
	}
	return &best, bestBox
}
