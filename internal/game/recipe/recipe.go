// Package recipe holds the accumulating selection of a drink build.
//
// State is a value: every mutating method returns a new State and leaves
// the receiver untouched, so a caller can keep an earlier State around as a
// checkpoint.
package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
)

// ErrTargetExceeded is returned when a commit would overfill a bucket.
var ErrTargetExceeded = errors.New("recipe: target exceeded")

// ErrUnknownParent is returned when a secondary names a parent that is not
// in the recipe, does not need a secondary, or is already matched.
var ErrUnknownParent = errors.New("recipe: unknown parent")

// Targets are the per-bucket counts fixed once rolled for a build.
type Targets struct {
	SpiritFamilies int `json:"spirit_families"`
	Spirits        int `json:"spirits"`
	Mixers         int `json:"mixers"`
	Additives      int `json:"additives"`
}

// Secondary is a garnish-like item paired with the mixer or additive that
// required it.
type Secondary struct {
	inventory.Item
	ParentID   string             `json:"parent_id"`
	ParentType inventory.Category `json:"parent_type"`
}

// Parent is a committed mixer or additive that still needs a secondary.
type Parent struct {
	Item inventory.Item
	Type inventory.Category
}

type commit struct {
	category inventory.Category
	n        int
}

// State is the recipe being built.
//
// Invariant: len(bucket) <= its target for every bucket; Selected holds
// every committed item (secondaries included) in commit order.
type State struct {
	Type    DrinkType `json:"type"`
	Method  Method    `json:"method"`
	Style   Style     `json:"style,omitempty"`
	Targets Targets   `json:"targets"`

	SpiritFamilies []inventory.Item `json:"spirit_families,omitempty"`
	Spirits        []inventory.Item `json:"spirits,omitempty"`
	Mixers         []inventory.Item `json:"mixers,omitempty"`
	Additives      []inventory.Item `json:"additives,omitempty"`
	Secondaries    []Secondary      `json:"secondaries,omitempty"`

	// Selected is the exclusion context for later draws. It is not encoded;
	// UnmarshalJSON rebuilds it from the buckets.
	Selected []inventory.Item `json:"-"`

	history []commit
}

// UnmarshalJSON decodes a State and rebuilds Selected and the commit
// history from the buckets, one commit per bucket and one per secondary, so
// a decoded State can be filled or reverted like a live one.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	decoded := State(p)
	decoded.Selected = nil
	decoded.history = nil
	for _, c := range []inventory.Category{
		inventory.CategorySpiritFamilies,
		inventory.CategorySpirits,
		inventory.CategoryMixers,
		inventory.CategoryAdditives,
	} {
		if items := decoded.Bucket(c); len(items) > 0 {
			decoded.Selected = append(decoded.Selected, items...)
			decoded.history = append(decoded.history, commit{category: c, n: len(items)})
		}
	}
	for _, sec := range decoded.Secondaries {
		decoded.Selected = append(decoded.Selected, sec.Item)
		decoded.history = append(decoded.history, commit{category: inventory.CategorySecondaries, n: 1})
	}
	*s = decoded
	return nil
}

// Bucket returns the items committed to c.
func (s State) Bucket(c inventory.Category) []inventory.Item {
	switch c {
	case inventory.CategorySpiritFamilies:
		return s.SpiritFamilies
	case inventory.CategorySpirits:
		return s.Spirits
	case inventory.CategoryMixers:
		return s.Mixers
	case inventory.CategoryAdditives:
		return s.Additives
	case inventory.CategorySecondaries:
		out := make([]inventory.Item, len(s.Secondaries))
		for i, sec := range s.Secondaries {
			out[i] = sec.Item
		}
		return out
	}
	return nil
}

// Target returns the target count of c. Secondaries have no fixed target.
func (s State) Target(c inventory.Category) int {
	switch c {
	case inventory.CategorySpiritFamilies:
		return s.Targets.SpiritFamilies
	case inventory.CategorySpirits:
		return s.Targets.Spirits
	case inventory.CategoryMixers:
		return s.Targets.Mixers
	case inventory.CategoryAdditives:
		return s.Targets.Additives
	}
	return 0
}

// Remaining returns how many more items c needs to reach its target.
func (s State) Remaining(c inventory.Category) int {
	if n := s.Target(c) - len(s.Bucket(c)); n > 0 {
		return n
	}
	return 0
}

// Commit appends items to bucket c and to Selected.
//
// Precondition: c is one of the four counted buckets, else ErrInvalidArgument.
// Postcondition: returns ErrTargetExceeded and the unchanged State if the
// bucket would exceed its target.
func (s State) Commit(c inventory.Category, items ...inventory.Item) (State, error) {
	if !counted(c) {
		return s, fmt.Errorf("recipe: commit to %q: %w", c, dice.ErrInvalidArgument)
	}
	if len(items) > s.Remaining(c) {
		return s, fmt.Errorf("recipe: commit %d %s with %d remaining: %w", len(items), c, s.Remaining(c), ErrTargetExceeded)
	}
	if len(items) == 0 {
		return s, nil
	}
	next := s.clone()
	switch c {
	case inventory.CategorySpiritFamilies:
		next.SpiritFamilies = append(next.SpiritFamilies, items...)
	case inventory.CategorySpirits:
		next.Spirits = append(next.Spirits, items...)
	case inventory.CategoryMixers:
		next.Mixers = append(next.Mixers, items...)
	case inventory.CategoryAdditives:
		next.Additives = append(next.Additives, items...)
	}
	next.Selected = append(next.Selected, items...)
	next.history = append(next.history, commit{category: c, n: len(items)})
	return next, nil
}

// AddSecondary pairs item with parent.
//
// Precondition: parent is a committed mixer or additive that needs a
// secondary and has none yet, else ErrUnknownParent.
func (s State) AddSecondary(parent Parent, item inventory.Item) (State, error) {
	if !s.unmatched(parent) {
		return s, fmt.Errorf("recipe: secondary %q for %s %q: %w", item.ID, parent.Type, parent.Item.ID, ErrUnknownParent)
	}
	next := s.clone()
	next.Secondaries = append(next.Secondaries, Secondary{Item: item, ParentID: parent.Item.ID, ParentType: parent.Type})
	next.Selected = append(next.Selected, item)
	next.history = append(next.history, commit{category: inventory.CategorySecondaries, n: 1})
	return next, nil
}

// Revert undoes the most recent commit.
//
// Postcondition: ok is false and s is returned unchanged when nothing has
// been committed.
func (s State) Revert() (next State, undone inventory.Category, ok bool) {
	if len(s.history) == 0 {
		return s, "", false
	}
	next = s.clone()
	last := next.history[len(next.history)-1]
	next.history = next.history[:len(next.history)-1]
	next.Selected = next.Selected[:len(next.Selected)-last.n]
	switch last.category {
	case inventory.CategorySpiritFamilies:
		next.SpiritFamilies = next.SpiritFamilies[:len(next.SpiritFamilies)-last.n]
	case inventory.CategorySpirits:
		next.Spirits = next.Spirits[:len(next.Spirits)-last.n]
	case inventory.CategoryMixers:
		next.Mixers = next.Mixers[:len(next.Mixers)-last.n]
	case inventory.CategoryAdditives:
		next.Additives = next.Additives[:len(next.Additives)-last.n]
	case inventory.CategorySecondaries:
		next.Secondaries = next.Secondaries[:len(next.Secondaries)-last.n]
	}
	return next, last.category, true
}

// Commits returns the number of commits Revert can undo.
func (s State) Commits() int { return len(s.history) }

// HasSecondary reports whether a secondary is paired with the parent of the
// given id and category.
func (s State) HasSecondary(parentID string, parentType inventory.Category) bool {
	for _, sec := range s.Secondaries {
		if sec.ParentID == parentID && sec.ParentType == parentType {
			return true
		}
	}
	return false
}

// UnmatchedParents returns the committed mixers and additives still waiting
// for a secondary. Mixers come first, each group most recent first.
func (s State) UnmatchedParents() []Parent {
	var out []Parent
	for _, group := range []struct {
		items []inventory.Item
		c     inventory.Category
	}{
		{s.Mixers, inventory.CategoryMixers},
		{s.Additives, inventory.CategoryAdditives},
	} {
		for i := len(group.items) - 1; i >= 0; i-- {
			it := group.items[i]
			if it.NeedsSecondary() && !s.HasSecondary(it.ID, group.c) {
				out = append(out, Parent{Item: it, Type: group.c})
			}
		}
	}
	return out
}

// Complete reports whether every bucket reached its target and every parent
// has its secondary.
func (s State) Complete() bool {
	for _, c := range []inventory.Category{
		inventory.CategorySpiritFamilies,
		inventory.CategorySpirits,
		inventory.CategoryMixers,
		inventory.CategoryAdditives,
	} {
		if s.Remaining(c) > 0 {
			return false
		}
	}
	return len(s.UnmatchedParents()) == 0
}

// Reset empties every bucket and Selected, keeping type, method, style and
// targets.
func (s State) Reset() State {
	return State{Type: s.Type, Method: s.Method, Style: s.Style, Targets: s.Targets}
}

func (s State) unmatched(p Parent) bool {
	for _, cand := range s.UnmatchedParents() {
		if cand.Type == p.Type && cand.Item.ID == p.Item.ID {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	next := s
	next.SpiritFamilies = slices.Clone(s.SpiritFamilies)
	next.Spirits = slices.Clone(s.Spirits)
	next.Mixers = slices.Clone(s.Mixers)
	next.Additives = slices.Clone(s.Additives)
	next.Secondaries = slices.Clone(s.Secondaries)
	next.Selected = slices.Clone(s.Selected)
	next.history = slices.Clone(s.history)
	return next
}

func counted(c inventory.Category) bool {
	switch c {
	case inventory.CategorySpiritFamilies, inventory.CategorySpirits, inventory.CategoryMixers, inventory.CategoryAdditives:
		return true
	}
	return false
}
