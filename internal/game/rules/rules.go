// Package rules evaluates hard bans and soft weight rules between a
// candidate item and the items already locked into a recipe.
//
// Every function here is pure: no logging, no randomness, no shared state.
package rules

// Subject is anything a rule reference can be matched against.
type Subject interface {
	// ItemID returns the stable, category-namespaced id.
	ItemID() string
	// HasTrait reports whether the subject carries the named trait.
	HasTrait(name string) bool
}

// Rule pairs two references. For hard bans the pair is forbidden; for soft
// rules WeightMult scales the candidate's selection weight.
type Rule struct {
	A          string   `yaml:"a" json:"a"`
	B          string   `yaml:"b" json:"b"`
	WeightMult *float64 `yaml:"weight_mult,omitempty" json:"weight_mult,omitempty"`
}

// Multiplier returns the soft multiplier of r. An absent multiplier counts
// as 1; a non-positive one is malformed and also counts as 1.
func (r Rule) Multiplier() float64 {
	if r.WeightMult == nil || *r.WeightMult <= 0 {
		return 1
	}
	return *r.WeightMult
}

// Matches reports whether r holds between candidate and locked in either
// orientation: (A~candidate, B~locked) or (B~candidate, A~locked).
//
// Postcondition: a rule with a malformed side never matches.
func (r Rule) Matches(candidate, locked Subject) bool {
	a, b := ParseRef(r.A), ParseRef(r.B)
	if !a.Valid() || !b.Valid() {
		return false
	}
	return (a.Matches(candidate) && b.Matches(locked)) ||
		(b.Matches(candidate) && a.Matches(locked))
}

// RuleSet is the rule snapshot passed to every roll.
type RuleSet struct {
	HardBans  []Rule `yaml:"hard_bans" json:"hard_bans"`
	SoftRules []Rule `yaml:"soft_rules" json:"soft_rules"`
}

// ViolatesHardBan reports whether candidate forms a banned pair with any
// locked item. It stops at the first match.
//
// Postcondition: returns false when hardBans or locked is empty.
func ViolatesHardBan[S Subject](candidate S, locked []S, hardBans []Rule) bool {
	if len(hardBans) == 0 || len(locked) == 0 {
		return false
	}
	for _, ban := range hardBans {
		for _, l := range locked {
			if ban.Matches(candidate, l) {
				return true
			}
		}
	}
	return false
}

// SoftWeight returns the product of the multipliers of every soft rule that
// matches candidate against at least one locked item. A rule counts once
// no matter how many locked items it matches; it does not compound per item.
//
// Postcondition: returns 1 when softRules is empty or nothing matches.
func SoftWeight[S Subject](candidate S, locked []S, softRules []Rule) float64 {
	weight := 1.0
	for _, rule := range softRules {
		for _, l := range locked {
			if rule.Matches(candidate, l) {
				weight *= rule.Multiplier()
				break
			}
		}
	}
	return weight
}
