package rules

import "fmt"

// Issue describes one malformed rule. Malformed rules never match, so a
// broken hard ban silently fails to ban; callers surface these.
type Issue struct {
	List  string // "hard_bans" or "soft_rules"
	Index int
	Msg   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s[%d]: %s", i.List, i.Index, i.Msg)
}

// Validate returns every malformed rule in rs.
//
// Postcondition: returns nil iff every reference parses and every soft rule
// carries a positive weight_mult.
func Validate(rs RuleSet) []Issue {
	var issues []Issue
	check := func(list string, idx int, r Rule) {
		if !ParseRef(r.A).Valid() {
			issues = append(issues, Issue{List: list, Index: idx, Msg: fmt.Sprintf("malformed reference a=%q", r.A)})
		}
		if !ParseRef(r.B).Valid() {
			issues = append(issues, Issue{List: list, Index: idx, Msg: fmt.Sprintf("malformed reference b=%q", r.B)})
		}
	}
	for i, r := range rs.HardBans {
		check("hard_bans", i, r)
	}
	for i, r := range rs.SoftRules {
		check("soft_rules", i, r)
		switch {
		case r.WeightMult == nil:
			issues = append(issues, Issue{List: "soft_rules", Index: i, Msg: "missing weight_mult"})
		case *r.WeightMult <= 0:
			issues = append(issues, Issue{List: "soft_rules", Index: i, Msg: fmt.Sprintf("weight_mult must be > 0, got %g", *r.WeightMult)})
		}
	}
	return issues
}
