// Package roller draws batches of unique, compatible items from a pool,
// with a fixed-odds "dealer's choice" joker that hands a draw to a person.
package roller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/rules"
	"github.com/cory-johannsen/diceydrinks/internal/game/selector"
)

// DefaultJokerFaces is the die size for the joker roll: a joker fires when
// the die shows its highest face, i.e. 1 in 20.
const DefaultJokerFaces = 20

// JokerFunc asks a person to choose one of allowed for a draw of itemType.
// Returning a nil item aborts the draw. It is the only call in a roll that
// may block.
type JokerFunc func(ctx context.Context, itemType string, allowed []inventory.Item) (*inventory.Item, error)

// Result is the outcome of one RollBatch call.
//
// Invariant: len(Selected) <= the requested count; NoSolution and Aborted
// are never both true.
type Result struct {
	Selected []inventory.Item
	// NoSolution is set when every remaining candidate was drawn already or
	// hard-banned before the count was reached.
	NoSolution bool
	// Aborted is set when the joker callback returned no item; the batch
	// ends early with what was drawn so far.
	Aborted bool
	// Jokers counts draws decided by the joker callback.
	Jokers int
}

// Complete reports whether the batch reached its requested count.
func (r Result) Complete(count int) bool {
	return !r.NoSolution && !r.Aborted && len(r.Selected) == count
}

// Roller runs batch rolls against a randomness source.
type Roller struct {
	src        dice.Source
	jokerFaces int
	logger     *zap.Logger
}

// New creates a Roller.
//
// Precondition: src and logger must be non-nil.
// Postcondition: returns ErrInvalidArgument iff jokerFaces <= 0.
func New(src dice.Source, jokerFaces int, logger *zap.Logger) (*Roller, error) {
	if jokerFaces <= 0 {
		return nil, fmt.Errorf("roller: joker faces %d: %w", jokerFaces, dice.ErrInvalidArgument)
	}
	return &Roller{src: src, jokerFaces: jokerFaces, logger: logger}, nil
}

// Source returns the randomness source of the roller.
func (r *Roller) Source() dice.Source {
	return r.src
}

// RollJoker rolls the joker die once.
//
// Postcondition: returns true with probability 1/jokerFaces.
func (r *Roller) RollJoker() bool {
	v, _ := dice.RollDie(r.src, r.jokerFaces)
	return v == r.jokerFaces
}

// RollBatch draws up to count unique items from pool. Each draw considers
// only items not yet drawn in this batch and not hard-banned against locked.
// A joker draw calls onJoker; with a nil onJoker the draw falls back to an
// automatic soft-weighted choice.
//
// Precondition: count >= 0, else ErrInvalidArgument.
// Postcondition: Selected holds distinct ids, none hard-banned against locked.
// An error from onJoker or a cancelled ctx is returned together with the
// items drawn before it.
func (r *Roller) RollBatch(
	ctx context.Context,
	itemType string,
	count int,
	pool, locked []inventory.Item,
	rs rules.RuleSet,
	onJoker JokerFunc,
) (Result, error) {
	if count < 0 {
		return Result{}, fmt.Errorf("roller: %s count %d: %w", itemType, count, dice.ErrInvalidArgument)
	}

	res := Result{Selected: make([]inventory.Item, 0, count)}
	drawn := make(map[string]bool, count)

	for len(res.Selected) < count {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		allowed := make([]inventory.Item, 0, len(pool))
		for _, it := range pool {
			if drawn[it.ID] || rules.ViolatesHardBan(it, locked, rs.HardBans) {
				continue
			}
			allowed = append(allowed, it)
		}

		if len(allowed) == 0 {
			res.NoSolution = true
			r.logger.Info("no solution",
				zap.String("item_type", itemType),
				zap.Int("wanted", count),
				zap.Int("drawn", len(res.Selected)),
			)
			return res, nil
		}

		var pick inventory.Item
		joker := r.RollJoker()
		if joker && onJoker != nil {
			chosen, err := onJoker(ctx, itemType, allowed)
			if err != nil {
				return res, fmt.Errorf("roller: dealer's choice for %s: %w", itemType, err)
			}
			if chosen == nil {
				res.Aborted = true
				r.logger.Info("dealer's choice aborted",
					zap.String("item_type", itemType),
					zap.Int("drawn", len(res.Selected)),
				)
				return res, nil
			}
			if !contains(allowed, chosen.ID) {
				return res, fmt.Errorf("roller: dealer's choice %q is not an allowed %s: %w", chosen.ID, itemType, dice.ErrInvalidArgument)
			}
			pick = *chosen
			res.Jokers++
		} else {
			var err error
			pick, err = selector.SoftWeightedChoice(r.src, allowed, locked, rs)
			if err != nil {
				return res, err
			}
		}

		drawn[pick.ID] = true
		res.Selected = append(res.Selected, pick)
		r.logger.Debug("draw",
			zap.String("item_type", itemType),
			zap.Int("draw", len(res.Selected)),
			zap.Int("allowed", len(allowed)),
			zap.Bool("joker", joker),
			zap.String("item", pick.ID),
		)
	}
	return res, nil
}

func contains(items []inventory.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
