package inventory

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/diceydrinks/internal/game/rules"
)

// Validate reports data problems in the snapshot. None of them stop a build:
// non-positive weights are coerced to 1 at selection time and malformed
// rules never match, so the caller logs these instead of failing.
//
// Postcondition: returns nil iff no problem was found.
func (s *Snapshot) Validate() []string {
	var problems []string
	seen := make(map[string]string)

	checkItem := func(where string, it Item) {
		if it.ID == "" {
			problems = append(problems, fmt.Sprintf("%s: item %q has an empty id", where, it.Name))
			return
		}
		if prev, dup := seen[it.ID]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate id %q (first seen in %s)", where, it.ID, prev))
		} else {
			seen[it.ID] = where
		}
		if it.Weight != nil && *it.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("%s: %q has non-positive weight %g", where, it.ID, *it.Weight))
		}
		if it.RequiresSecondary != "" {
			if _, ok := s.Secondary[it.RequiresSecondary]; !ok {
				problems = append(problems, fmt.Sprintf("%s: %q requires unknown secondary pool %q", where, it.ID, it.RequiresSecondary))
			}
		}
		if it.IsFamily() && it.Subpool != "" {
			if _, ok := s.Subpools[it.Subpool]; !ok {
				problems = append(problems, fmt.Sprintf("%s: family %q references unknown subpool %q", where, it.ID, it.Subpool))
			}
		}
	}

	for _, it := range s.Inventory.Spirits {
		checkItem("inventory.spirits", it)
	}
	for _, it := range s.Inventory.Mixers {
		checkItem("inventory.mixers", it)
	}
	for _, it := range s.Inventory.Additives {
		checkItem("inventory.additives", it)
	}
	for _, id := range sortedKeys(s.Subpools) {
		for _, it := range s.Subpools[id] {
			checkItem("subpools."+id, it)
		}
	}
	for _, id := range sortedKeys(s.Secondary) {
		for _, it := range s.Secondary[id] {
			checkItem("secondary."+id, it)
		}
	}
	for _, issue := range rules.Validate(s.Rules) {
		problems = append(problems, "rules."+issue.String())
	}
	return problems
}

func sortedKeys(m map[string][]Item) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
