// Package sequencer decides which step a build needs next.
package sequencer

import (
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
)

// Step names the next action of a build.
type Step string

// Step constants, in precedence order.
const (
	StepSpiritFamilies Step = "pick_spirit_families"
	StepSpirits        Step = "pick_spirits"
	StepMixers         Step = "pick_mixers"
	StepAdditives      Step = "pick_additives"
	StepSecondary      Step = "pick_secondary"
	StepComplete       Step = "complete"
)

// Category returns the bucket a step fills. StepComplete has none.
func (s Step) Category() inventory.Category {
	switch s {
	case StepSpiritFamilies:
		return inventory.CategorySpiritFamilies
	case StepSpirits:
		return inventory.CategorySpirits
	case StepMixers:
		return inventory.CategoryMixers
	case StepAdditives:
		return inventory.CategoryAdditives
	case StepSecondary:
		return inventory.CategorySecondaries
	}
	return ""
}

var bucketSteps = []Step{StepSpiritFamilies, StepSpirits, StepMixers, StepAdditives}

// NextStep returns the first unmet step of s.
//
// Postcondition: returns StepComplete iff s.Complete().
func NextStep(s recipe.State) Step {
	for _, step := range bucketSteps {
		if s.Remaining(step.Category()) > 0 {
			return step
		}
	}
	if len(s.UnmatchedParents()) > 0 {
		return StepSecondary
	}
	return StepComplete
}

// NextSecondaryParent returns the parent the next secondary pick is for.
//
// Postcondition: ok is false when no parent is waiting.
func NextSecondaryParent(s recipe.State) (parent recipe.Parent, ok bool) {
	parents := s.UnmatchedParents()
	if len(parents) == 0 {
		return recipe.Parent{}, false
	}
	return parents[0], true
}
