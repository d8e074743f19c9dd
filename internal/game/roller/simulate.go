package roller

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/rules"
)

// Stats summarises repeated batch rolls of one configuration.
type Stats struct {
	Trials      int
	NoSolutions int
	// Picks counts how often each id was selected across all trials.
	Picks map[string]int
}

// Frequency returns the share of trials in which id was picked.
func (s Stats) Frequency(id string) float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Picks[id]) / float64(s.Trials)
}

// Simulate runs RollBatch trials times without a joker callback, so every
// draw is automatic, and tallies the picks. It is used to check that weights
// and soft rules produce the intended balance.
//
// Precondition: trials > 0, else ErrInvalidArgument.
func (r *Roller) Simulate(
	ctx context.Context,
	trials int,
	itemType string,
	count int,
	pool, locked []inventory.Item,
	rs rules.RuleSet,
) (Stats, error) {
	if trials <= 0 {
		return Stats{}, fmt.Errorf("roller: simulate %d trials: %w", trials, dice.ErrInvalidArgument)
	}
	stats := Stats{Trials: trials, Picks: make(map[string]int)}
	for i := 0; i < trials; i++ {
		res, err := r.RollBatch(ctx, itemType, count, pool, locked, rs, nil)
		if err != nil {
			return stats, err
		}
		if res.NoSolution {
			stats.NoSolutions++
		}
		for _, it := range res.Selected {
			stats.Picks[it.ID]++
		}
	}
	return stats, nil
}
