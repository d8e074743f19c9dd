package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed "NdS+M" dice expression.
//
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse parses "d20", "1d3", "2d6+1" or "1d4-1" into an Expression.
//
// Postcondition: returns a valid Expression or an error wrapping ErrInvalidArgument.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression: %w", ErrInvalidArgument)
	}

	countStr, rest, found := strings.Cut(s, "d")
	if !found {
		return Expression{}, fmt.Errorf("dice: missing 'd' in %q: %w", raw, ErrInvalidArgument)
	}

	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: die count in %q must be a positive integer: %w", raw, ErrInvalidArgument)
		}
		count = n
	}

	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be an integer >= 2: %w", raw, ErrInvalidArgument)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: modifier in %q: %w", raw, ErrInvalidArgument)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for package-level defaults.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Roll evaluates expr against src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and every die is in [1, Sides].
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}
