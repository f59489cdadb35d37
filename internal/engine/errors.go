package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// ErrInvalidInput is wrapped by every validation failure of the engine.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the offending field of a rejected input.
type ValidationError struct {
	Field  string
	Reason string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a finite number")
	}
	return nil
}

func positive(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if !(v > 0) {
		return invalid(field, "must be greater than 0")
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if !(v >= 0) {
		return invalid(field, "must not be negative")
	}
	return nil
}

// ValidateItem rejects items with non-positive dimensions or negative spacing, limits or weight.
func ValidateItem(item model.Item) error {
	checks := []error{
		positive("width", item.Width),
		positive("depth", item.Depth),
		positive("height", item.Height),
		nonNegative("side_margin", item.SideMargin),
		nonNegative("front_margin", item.FrontMargin),
		nonNegative("top_margin", item.TopMargin),
		nonNegative("gap_xy", item.GapXY),
		nonNegative("gap_z", item.GapZ),
		nonNegative("max_stack_layers", float64(item.MaxStackLayers)),
		nonNegative("unit_weight", item.UnitWeight),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateContainer rejects containers with non-positive interior dimensions or negative weights.
func ValidateContainer(c model.Container) error {
	checks := []error{
		positive("inner_width", c.InnerWidth),
		positive("inner_depth", c.InnerDepth),
		positive("inner_height", c.InnerHeight),
		nonNegative("max_weight", c.MaxWeight),
		nonNegative("own_weight", c.OwnWeight),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("container %d: %w", c.ID, err)
		}
	}
	return nil
}

// ValidateOptions rejects negative padding.
func ValidateOptions(opts model.PlanOptions) error {
	return nonNegative("container_padding", opts.ContainerPadding)
}

// checkScale rejects containers so much larger than the item that a single axis would hold more
// than maxUnitsPerAxis units. Keeping every count under that bound keeps capacities well inside int.
func checkScale(item model.Item, c model.Container) error {
	longest := max(c.InnerWidth, c.InnerDepth, c.InnerHeight)
	shortest := min(item.Width, item.Depth, item.Height)
	if longest/shortest > maxUnitsPerAxis {
		return fmt.Errorf("container %d: %w", c.ID,
			invalid("dimensions", fmt.Sprintf("more than %d units along one axis", maxUnitsPerAxis)))
	}
	return nil
}

func validateAll(item model.Item, containers []model.Container, opts model.PlanOptions) error {
	if err := ValidateItem(item); err != nil {
		return err
	}
	for _, c := range containers {
		if err := ValidateContainer(c); err != nil {
			return err
		}
		if err := checkScale(item, c); err != nil {
			return err
		}
	}
	return ValidateOptions(opts)
}
