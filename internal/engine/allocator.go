package engine

import (
	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// AllocateQuantity spreads quantity units of one item over as many shipments as needed.
// Every shipment takes min(capacity, remaining) units on the best standard plan. The loop stops
// when the quantity is exhausted or no container fits the item, in which case the remainder is
// reported as leftover. Shipped units plus leftover always equal quantity.
func AllocateQuantity(item model.Item, quantity int, containers []model.Container, opts model.PlanOptions) (model.Allocation, error) {
	if err := validateQuantity(item, quantity, containers, opts); err != nil {
		return model.Allocation{}, err
	}

	// Plan selection does not depend on the remaining quantity, so one plan serves every shipment.
	plan, container := bestPlan(item, containers, opts)
	if plan == nil {
		return model.Allocation{Shipments: []model.Shipment{}, Leftover: quantity}, nil
	}

	return allocate(quantity, plan.Capacity, func(n int) model.Shipment {
		return model.Shipment{Container: container, Layout: plan.ForQuantity(n), Quantity: n}
	}), nil
}

// AllocateQuantityExtended works like AllocateQuantity but loads every shipment with an extended
// plan. The last shipment's plan stops adding layers once its quantity is met.
func AllocateQuantityExtended(item model.Item, quantity int, containers []model.Container, opts model.PlanOptions) (model.Allocation, error) {
	if err := validateQuantity(item, quantity, containers, opts); err != nil {
		return model.Allocation{}, err
	}

	full, container := bestExtendedPlan(item, containers, opts)
	if full == nil {
		return model.Allocation{Shipments: []model.Shipment{}, Leftover: quantity}, nil
	}

	return allocate(quantity, full.TotalCapacity, func(n int) model.Shipment {
		return model.Shipment{Container: container, Layout: truncate(full, n, item, container), Quantity: n}
	}), nil
}

// allocate folds quantity into shipments of at most capacity units.
func allocate(quantity, capacity int, ship func(n int) model.Shipment) model.Allocation {
	shipments := make([]model.Shipment, 0, shipmentCount(quantity, capacity))
	for remaining := quantity; remaining > 0; {
		n := min(capacity, remaining)
		shipments = append(shipments, ship(n))
		remaining -= n
	}
	return model.Allocation{Shipments: shipments}
}

func shipmentCount(quantity, capacity int) int {
	const maxPrealloc = 1024
	if capacity <= 0 || quantity <= 0 {
		return 0
	}
	return min((quantity+capacity-1)/capacity, maxPrealloc)
}

func validateQuantity(item model.Item, quantity int, containers []model.Container, opts model.PlanOptions) error {
	if quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return validateAll(item, containers, opts)
}
