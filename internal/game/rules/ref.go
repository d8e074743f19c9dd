package rules

import (
	"strings"
	"unicode"
)

// TraitPrefix marks a rule side that matches by trait instead of item id.
const TraitPrefix = "trait:"

// RefKind distinguishes how a rule side is matched.
type RefKind int

const (
	// RefInvalid never matches anything.
	RefInvalid RefKind = iota
	// RefID matches an item whose id equals Value.
	RefID
	// RefTrait matches an item carrying the trait Value.
	RefTrait
)

// Ref is one parsed side of a rule.
type Ref struct {
	Kind  RefKind
	Value string
}

// ParseRef parses a raw rule side. Empty strings, an empty trait name and
// values containing whitespace are malformed and yield RefInvalid.
func ParseRef(raw string) Ref {
	value, isTrait := strings.CutPrefix(raw, TraitPrefix)
	if value == "" || strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return Ref{Kind: RefInvalid, Value: raw}
	}
	if isTrait {
		return Ref{Kind: RefTrait, Value: value}
	}
	return Ref{Kind: RefID, Value: value}
}

// Valid reports whether the reference can ever match.
func (r Ref) Valid() bool {
	return r.Kind != RefInvalid
}

// Matches reports whether s satisfies the reference. Invalid references
// never match.
func (r Ref) Matches(s Subject) bool {
	switch r.Kind {
	case RefID:
		return s.ItemID() == r.Value
	case RefTrait:
		return s.HasTrait(r.Value)
	default:
		return false
	}
}
