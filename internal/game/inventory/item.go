// Package inventory holds the item model and the read-only inventory
// snapshot (pools, subpools, secondary pools and rules) a build draws from.
package inventory

import (
	"slices"
	"strings"
)

// Category names a recipe bucket and the inventory pool that feeds it.
type Category string

// Category constants.
const (
	CategorySpiritFamilies Category = "spiritFamilies"
	CategorySpirits        Category = "spirits"
	CategoryMixers         Category = "mixers"
	CategoryAdditives      Category = "additives"
	CategorySecondaries    Category = "secondaries"
)

// KindFamily marks a spirit entry that stands for a family of brands.
const KindFamily = "family"

// Item is a single inventory entry.
//
// Items are authored outside the core and never mutated by it.
type Item struct {
	ID                string   `yaml:"id" json:"id"`
	Name              string   `yaml:"name" json:"name"`
	Kind              string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Traits            []string `yaml:"traits,omitempty" json:"traits,omitempty"`
	Weight            *float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
	InRotation        bool     `yaml:"in_rotation" json:"in_rotation"`
	RequiresSecondary string   `yaml:"requires_secondary,omitempty" json:"requires_secondary,omitempty"`
	Subpool           string   `yaml:"subpool,omitempty" json:"subpool,omitempty"`
}

// ItemID returns the item's id.
func (i Item) ItemID() string { return i.ID }

// HasTrait reports whether the item carries the named trait.
func (i Item) HasTrait(name string) bool {
	return slices.Contains(i.Traits, name)
}

// BaseWeight returns the declared weight, or 1 when none is set.
// Non-positive values are returned as-is; selection coerces them to 1.
func (i Item) BaseWeight() float64 {
	if i.Weight == nil {
		return 1
	}
	return *i.Weight
}

// IsFamily reports whether the item is a spirit family.
func (i Item) IsFamily() bool { return i.Kind == KindFamily }

// NeedsSecondary reports whether the item must be paired with a secondary.
func (i Item) NeedsSecondary() bool { return i.RequiresSecondary != "" }

// Family returns the id prefix before the first '.', e.g. "whiskey" for
// "whiskey.jim_beam".
func (i Item) Family() string {
	prefix, _, _ := strings.Cut(i.ID, ".")
	return prefix
}

// InRotation returns the items of pool that are in rotation, preserving order.
func InRotation(pool []Item) []Item {
	out := make([]Item, 0, len(pool))
	for _, it := range pool {
		if it.InRotation {
			out = append(out, it)
		}
	}
	return out
}

// IDs returns the ids of items in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
