// Package dice provides the randomness abstraction, die rolls and
// roll-result types used by every selection step of a drink build.
package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a primitive receives malformed input,
// such as a non-positive bound or die size.
var ErrInvalidArgument = errors.New("invalid argument")

// RandomInt returns a uniformly distributed int in [0, maxExclusive).
//
// Precondition: src must be non-nil.
// Postcondition: returns ErrInvalidArgument iff maxExclusive <= 0.
func RandomInt(src Source, maxExclusive int) (int, error) {
	if maxExclusive <= 0 {
		return 0, fmt.Errorf("dice: random int bound %d: %w", maxExclusive, ErrInvalidArgument)
	}
	return src.Intn(maxExclusive), nil
}

// RandomFloat returns a uniformly distributed float in [0, 1).
func RandomFloat(src Source) float64 {
	return src.Float64()
}

// RollDie returns a value in [1, faces].
//
// Postcondition: returns ErrInvalidArgument iff faces <= 0.
func RollDie(src Source, faces int) (int, error) {
	if faces <= 0 {
		return 0, fmt.Errorf("dice: die with %d faces: %w", faces, ErrInvalidArgument)
	}
	return src.Intn(faces) + 1, nil
}

// RollResult holds the audit trail for a single dice expression roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "1d3 → [2] +0 = 2".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}
