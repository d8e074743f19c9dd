// Package builder drives a complete drink build against an inventory
// snapshot: type, method, style and counts, then one sequencer step at a
// time until the recipe is complete.
package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
	"github.com/cory-johannsen/diceydrinks/internal/game/roller"
	"github.com/cory-johannsen/diceydrinks/internal/game/sequencer"
)

// ErrNoSolution is returned when exhaustion cannot be recovered by
// reverting earlier picks within the revert budget.
var ErrNoSolution = errors.New("builder: no solution")

// Chooser resolves dealer's choice. An empty or nil answer hands the
// decision back to the dice.
type Chooser interface {
	ChooseType(ctx context.Context, options []recipe.DrinkType) (recipe.DrinkType, error)
	ChooseMethod(ctx context.Context, t recipe.DrinkType, options []recipe.Method) (recipe.Method, error)
	ChooseItem(ctx context.Context, itemType string, allowed []inventory.Item) (*inventory.Item, error)
}

// Options tune a build.
type Options struct {
	CountDice       recipe.CountDice
	FamilyDrilldown bool
	// MaxReverts bounds how many commits may be undone to escape exhaustion.
	MaxReverts int
}

// Report describes a finished build.
type Report struct {
	SessionID string
	State     recipe.State
	Reverts   int
	Jokers    int
	// Skipped lists parents left without a secondary because their
	// secondary pool had no items in rotation.
	Skipped []recipe.Parent
}

// Builder runs builds. It holds no per-build state and is safe to reuse
// for sequential builds.
type Builder struct {
	snap    *inventory.Snapshot
	roller  *roller.Roller
	dice    *dice.Roller
	chooser Chooser
	opts    Options
	logger  *zap.Logger
}

var itemTypes = map[sequencer.Step]string{
	sequencer.StepSpiritFamilies: "spirit family",
	sequencer.StepSpirits:        "spirit",
	sequencer.StepMixers:         "mixer",
	sequencer.StepAdditives:      "additive",
	sequencer.StepSecondary:      "secondary",
}

// New creates a Builder. chooser may be nil, in which case every joker is
// resolved by the dice.
//
// Precondition: snap, rl and logger must be non-nil.
// Postcondition: returns ErrInvalidArgument if opts.MaxReverts < 0.
func New(snap *inventory.Snapshot, rl *roller.Roller, opts Options, chooser Chooser, logger *zap.Logger) (*Builder, error) {
	if opts.MaxReverts < 0 {
		return nil, fmt.Errorf("builder: max reverts %d: %w", opts.MaxReverts, dice.ErrInvalidArgument)
	}
	return &Builder{
		snap:    snap,
		roller:  rl,
		dice:    dice.NewLoggedRoller(rl.Source(), logger),
		chooser: chooser,
		opts:    opts,
		logger:  logger,
	}, nil
}

// Build rolls a new recipe from scratch.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	src := b.roller.Source()

	dt, err := b.rollType(ctx, src)
	if err != nil {
		return Report{}, err
	}
	method, err := b.rollMethod(ctx, src, dt)
	if err != nil {
		return Report{}, err
	}
	var style recipe.Style
	if dt == recipe.TypeDrink {
		if style, err = recipe.RollStyle(src); err != nil {
			return Report{}, err
		}
	}

	targets := recipe.RollTargets(b.dice, b.opts.CountDice, b.opts.FamilyDrilldown)
	if b.opts.FamilyDrilldown {
		// Families are sampled without replacement, so never ask for more
		// than there are.
		if n := len(b.snap.Pool(inventory.CategorySpiritFamilies)); targets.SpiritFamilies > n {
			targets.SpiritFamilies = n
			targets.Spirits = n
		}
	}

	return b.Fill(ctx, recipe.State{Type: dt, Method: method, Style: style, Targets: targets})
}

// Fill completes s, rolling every bucket still below its target and every
// missing secondary. It is used for fresh builds and for remixes.
//
// Postcondition: on success Report.State has every bucket at its target;
// it is Complete unless Report.Skipped is non-empty.
func (b *Builder) Fill(ctx context.Context, s recipe.State) (Report, error) {
	rep := Report{SessionID: uuid.NewString()}
	logger := b.logger.With(zap.String("session", rep.SessionID))
	logger.Info("build started",
		zap.String("type", string(s.Type)),
		zap.String("method", string(s.Method)),
		zap.String("style", string(s.Style)),
		zap.Int("spirits", s.Targets.Spirits),
		zap.Int("mixers", s.Targets.Mixers),
		zap.Int("additives", s.Targets.Additives),
		zap.Bool("drilldown", s.Targets.SpiritFamilies > 0),
	)

	skipped := make(map[string]bool)
	for {
		if err := ctx.Err(); err != nil {
			rep.State = s
			return rep, err
		}

		step := sequencer.NextStep(s)
		logger.Debug("step", zap.String("step", string(step)))

		var (
			next       recipe.State
			noSolution bool
			err        error
		)
		switch step {
		case sequencer.StepComplete:
			rep.State = s
			logger.Info("build complete",
				zap.Strings("selected", inventory.IDs(s.Selected)),
				zap.Int("reverts", rep.Reverts),
				zap.Int("jokers", rep.Jokers),
			)
			return rep, nil

		case sequencer.StepSecondary:
			parent, found := firstUnskipped(s, skipped)
			if !found {
				rep.State = s
				logger.Info("build finished without some secondaries",
					zap.Int("skipped", len(rep.Skipped)),
					zap.Int("reverts", rep.Reverts),
				)
				return rep, nil
			}
			pool := b.snap.SecondaryItems(parent.Item.RequiresSecondary)
			if len(pool) == 0 {
				skipped[parent.Item.ID] = true
				rep.Skipped = append(rep.Skipped, parent)
				logger.Warn("secondary pool empty, skipping",
					zap.String("parent", parent.Item.ID),
					zap.String("pool", parent.Item.RequiresSecondary),
				)
				continue
			}
			next, noSolution, err = b.pickSecondary(ctx, s, parent, pool, &rep)

		case sequencer.StepSpirits:
			if s.Targets.SpiritFamilies > 0 && len(s.SpiritFamilies) > len(s.Spirits) {
				next, noSolution, err = b.drillDown(ctx, s, &rep)
				break
			}
			next, noSolution, err = b.fillBucket(ctx, s, step, &rep)

		default:
			next, noSolution, err = b.fillBucket(ctx, s, step, &rep)
		}
		if err != nil {
			rep.State = s
			return rep, err
		}

		if noSolution {
			if rep.Reverts >= b.opts.MaxReverts {
				rep.State = s
				return rep, fmt.Errorf("%s after %d reverts: %w", itemTypes[step], rep.Reverts, ErrNoSolution)
			}
			reverted, undone, ok := s.Revert()
			if !ok {
				rep.State = s
				return rep, fmt.Errorf("%s with nothing to revert: %w", itemTypes[step], ErrNoSolution)
			}
			rep.Reverts++
			logger.Warn("no compatible items, reverting previous pick",
				zap.String("step", string(step)),
				zap.String("reverted", string(undone)),
				zap.Int("reverts", rep.Reverts),
			)
			s = reverted
			continue
		}
		s = next
	}
}

// fillBucket rolls the remainder of a counted bucket. A joker the chooser
// declines ends the batch early; the rest is rolled without the chooser.
func (b *Builder) fillBucket(ctx context.Context, s recipe.State, step sequencer.Step, rep *Report) (recipe.State, bool, error) {
	c := step.Category()
	pool := b.snap.Pool(c)
	res, err := b.roller.RollBatch(ctx, itemTypes[step], s.Remaining(c), pool, s.Selected, b.snap.Rules, b.joker())
	if err != nil {
		return s, false, err
	}
	rep.Jokers += res.Jokers
	if res.Aborted {
		// The second batch starts with an empty drawn set, so items already
		// drawn must leave the pool to keep the bucket unique.
		remaining := slices.DeleteFunc(slices.Clone(pool), func(it inventory.Item) bool {
			return slices.ContainsFunc(res.Selected, func(d inventory.Item) bool { return d.ID == it.ID })
		})
		rest, err := b.roller.RollBatch(ctx, itemTypes[step], s.Remaining(c)-len(res.Selected), remaining, slices.Concat(s.Selected, res.Selected), b.snap.Rules, nil)
		if err != nil {
			return s, false, err
		}
		res.Selected = append(res.Selected, rest.Selected...)
		res.NoSolution = rest.NoSolution
	}
	if res.NoSolution {
		return s, true, nil
	}
	next, err := s.Commit(c, res.Selected...)
	return next, false, err
}

// drillDown picks one spirit from the subpool of the next family without
// one. A family whose subpool is empty stands in for itself.
func (b *Builder) drillDown(ctx context.Context, s recipe.State, rep *Report) (recipe.State, bool, error) {
	family := s.SpiritFamilies[len(s.Spirits)]
	sub := b.snap.SubpoolItems(family.Subpool)
	if len(sub) == 0 {
		next, err := s.Commit(inventory.CategorySpirits, family)
		return next, false, err
	}
	pick, noSolution, err := b.pickOne(ctx, "spirit", sub, s.Selected, rep)
	if err != nil || noSolution {
		return s, noSolution, err
	}
	next, err := s.Commit(inventory.CategorySpirits, pick)
	return next, false, err
}

func (b *Builder) pickSecondary(ctx context.Context, s recipe.State, parent recipe.Parent, pool []inventory.Item, rep *Report) (recipe.State, bool, error) {
	pick, noSolution, err := b.pickOne(ctx, itemTypes[sequencer.StepSecondary], pool, s.Selected, rep)
	if err != nil || noSolution {
		return s, noSolution, err
	}
	next, err := s.AddSecondary(parent, pick)
	return next, false, err
}

func (b *Builder) pickOne(ctx context.Context, itemType string, pool, locked []inventory.Item, rep *Report) (inventory.Item, bool, error) {
	res, err := b.roller.RollBatch(ctx, itemType, 1, pool, locked, b.snap.Rules, b.joker())
	if err != nil {
		return inventory.Item{}, false, err
	}
	rep.Jokers += res.Jokers
	if res.Aborted {
		if res, err = b.roller.RollBatch(ctx, itemType, 1, pool, locked, b.snap.Rules, nil); err != nil {
			return inventory.Item{}, false, err
		}
	}
	if res.NoSolution {
		return inventory.Item{}, true, nil
	}
	return res.Selected[0], false, nil
}

func (b *Builder) joker() roller.JokerFunc {
	if b.chooser == nil {
		return nil
	}
	return b.chooser.ChooseItem
}

func (b *Builder) rollType(ctx context.Context, src dice.Source) (recipe.DrinkType, error) {
	if b.chooser != nil && b.roller.RollJoker() {
		dt, err := b.chooser.ChooseType(ctx, recipe.Types)
		if err != nil {
			return "", fmt.Errorf("builder: dealer's choice for type: %w", err)
		}
		if dt != "" {
			b.logger.Info("dealer's choice", zap.String("type", string(dt)))
			return dt, nil
		}
	}
	return recipe.RollType(src)
}

func (b *Builder) rollMethod(ctx context.Context, src dice.Source, dt recipe.DrinkType) (recipe.Method, error) {
	if b.chooser != nil && b.roller.RollJoker() {
		m, err := b.chooser.ChooseMethod(ctx, dt, recipe.Methods(dt))
		if err != nil {
			return "", fmt.Errorf("builder: dealer's choice for method: %w", err)
		}
		if m != "" {
			b.logger.Info("dealer's choice", zap.String("method", string(m)))
			return m, nil
		}
	}
	return recipe.RollMethod(src, dt)
}

func firstUnskipped(s recipe.State, skipped map[string]bool) (recipe.Parent, bool) {
	if len(skipped) == 0 {
		return sequencer.NextSecondaryParent(s)
	}
	for _, p := range s.UnmatchedParents() {
		if !skipped[p.Item.ID] {
			return p, true
		}
	}
	return recipe.Parent{}, false
}
