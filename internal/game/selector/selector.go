// Package selector picks one candidate from a pool, uniformly or in
// proportion to weights adjusted by soft rules.
package selector

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/rules"
)

// ErrEmptyInput is returned when a choice is requested from zero candidates.
var ErrEmptyInput = errors.New("empty input")

// Choice returns a uniformly chosen element of items.
//
// Postcondition: returns ErrEmptyInput iff len(items) == 0.
func Choice[T any](src dice.Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("selector: choice: %w", ErrEmptyInput)
	}
	return items[src.Intn(len(items))], nil
}

// WeightedChoice returns one element of items with probability proportional
// to its weight. Weights that are not positive and finite count as 1, so
// every candidate stays reachable.
//
// Precondition: len(items) == len(weights), else ErrInvalidArgument.
// Postcondition: returns ErrEmptyInput iff len(items) == 0.
func WeightedChoice[T any](src dice.Source, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("selector: weighted choice: %w", ErrEmptyInput)
	}
	if len(items) != len(weights) {
		return zero, fmt.Errorf("selector: %d items but %d weights: %w", len(items), len(weights), dice.ErrInvalidArgument)
	}

	valid := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 1) {
			w = 1
		}
		valid[i] = w
		total += w
	}

	r := src.Float64() * total
	cumulative := 0.0
	for i, w := range valid {
		cumulative += w
		if r < cumulative {
			return items[i], nil
		}
	}
	// Rounding can leave r at or past the final sum.
	return items[len(items)-1], nil
}

// SoftWeightedChoice weighs each item as BaseWeight * SoftWeight against
// locked, then delegates to WeightedChoice.
//
// Postcondition: returns ErrEmptyInput iff len(items) == 0.
func SoftWeightedChoice(src dice.Source, items, locked []inventory.Item, rs rules.RuleSet) (inventory.Item, error) {
	return WeightedChoice(src, items, Weights(items, locked, rs))
}

// Weights returns the effective soft weight of every item, in order.
func Weights(items, locked []inventory.Item, rs rules.RuleSet) []float64 {
	weights := make([]float64, len(items))
	for i, it := range items {
		weights[i] = it.BaseWeight() * rules.SoftWeight(it, locked, rs.SoftRules)
	}
	return weights
}
