package cookbook

import (
	"slices"
	"strings"
)

// SortBy orders search results.
type SortBy string

// SortBy constants. SortDate is the default.
const (
	SortDate   SortBy = "date"
	SortName   SortBy = "name"
	SortRating SortBy = "rating"
)

// ParseSortBy maps a user string to a SortBy, defaulting to SortDate.
func ParseSortBy(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortName:
		return SortName
	case SortRating:
		return SortRating
	}
	return SortDate
}

// Filter returns the entries whose search text contains query
// (case-insensitive), ordered by sortBy. The input is not modified.
//
// Postcondition: dates sort newest first, ratings highest first, names A-Z;
// ties keep their input order.
func Filter(entries []Entry, query string, sortBy SortBy) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q == "" || strings.Contains(SearchText(e), q) {
			out = append(out, e)
		}
	}

	switch sortBy {
	case SortName:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b Entry) int { return b.Rating - a.Rating })
	default:
		slices.SortStableFunc(out, func(a, b Entry) int { return b.Date.Compare(a.Date) })
	}
	return out
}

// SearchText is the lower-case text a query is matched against: name,
// notes, method, style, every ingredient name and the family of each
// spirit.
func SearchText(e Entry) string {
	r := e.Recipe
	parts := []string{e.DisplayName(), e.Notes, string(r.Method), string(r.Style)}
	for _, sp := range r.Spirits {
		parts = append(parts, sp.Name)
		if fam := sp.Family(); fam != "" {
			parts = append(parts, strings.NewReplacer("_", " ", "-", " ").Replace(fam))
		}
	}
	for _, it := range r.Mixers {
		parts = append(parts, it.Name)
	}
	for _, it := range r.Additives {
		parts = append(parts, it.Name)
	}
	for _, sec := range r.Secondaries {
		parts = append(parts, sec.Name)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
