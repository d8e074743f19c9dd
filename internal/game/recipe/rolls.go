package recipe

import (
	"fmt"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/selector"
)

// DrinkType is either a mixed drink or a shot.
type DrinkType string

// DrinkType constants.
const (
	TypeDrink DrinkType = "drink"
	TypeShot  DrinkType = "shot"
)

// Types lists the drink types in die order: 1 is a drink, 2 a shot.
var Types = []DrinkType{TypeDrink, TypeShot}

// Method is how the drink is put together.
type Method string

// Method constants.
const (
	MethodShaken  Method = "Shaken"
	MethodStirred Method = "Stirred"
	MethodBlended Method = "Blended"
	MethodLayered Method = "Layered"
)

// Style is how a drink is served. Shots have no style.
type Style string

// Style constants.
const (
	StyleRocks Style = "Rocks"
	StyleNeat  Style = "Neat"
)

// Styles lists the serving styles.
var Styles = []Style{StyleRocks, StyleNeat}

// Methods returns the methods available for t.
func Methods(t DrinkType) []Method {
	if t == TypeShot {
		return []Method{MethodShaken, MethodStirred, MethodLayered}
	}
	return []Method{MethodShaken, MethodStirred, MethodBlended}
}

// RollType rolls a d2 for the drink type.
func RollType(src dice.Source) (DrinkType, error) {
	v, err := dice.RollDie(src, len(Types))
	if err != nil {
		return "", err
	}
	return Types[v-1], nil
}

// RollMethod picks a method for t uniformly.
func RollMethod(src dice.Source, t DrinkType) (Method, error) {
	return selector.Choice(src, Methods(t))
}

// RollStyle flips a coin between rocks and neat.
func RollStyle(src dice.Source) (Style, error) {
	return selector.Choice(src, Styles)
}

// CountDice are the dice rolled for the "how many" step.
type CountDice struct {
	Spirits   dice.Expression
	Mixers    dice.Expression
	Additives dice.Expression
}

// ParseCountDice parses the three count expressions.
func ParseCountDice(spirits, mixers, additives string) (CountDice, error) {
	var cd CountDice
	var err error
	if cd.Spirits, err = dice.Parse(spirits); err != nil {
		return CountDice{}, fmt.Errorf("spirits dice: %w", err)
	}
	if cd.Mixers, err = dice.Parse(mixers); err != nil {
		return CountDice{}, fmt.Errorf("mixers dice: %w", err)
	}
	if cd.Additives, err = dice.Parse(additives); err != nil {
		return CountDice{}, fmt.Errorf("additives dice: %w", err)
	}
	return cd, nil
}

// DefaultCountDice are 1d3 spirits, 1d4 mixers and 1d2 additives.
func DefaultCountDice() CountDice {
	return CountDice{
		Spirits:   dice.MustParse("1d3"),
		Mixers:    dice.MustParse("1d4"),
		Additives: dice.MustParse("1d2"),
	}
}

// RollTargets rolls the bucket targets. With drilldown the spirits are
// picked as families first, so the family target equals the spirit target.
//
// Postcondition: every target is >= 0; a negative total is clamped to 0.
func RollTargets(r *dice.Roller, cd CountDice, drilldown bool) Targets {
	t := Targets{
		Spirits:   clamp(r.Roll(cd.Spirits).Total()),
		Mixers:    clamp(r.Roll(cd.Mixers).Total()),
		Additives: clamp(r.Roll(cd.Additives).Total()),
	}
	if drilldown {
		t.SpiritFamilies = t.Spirits
	}
	return t
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
