package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/diceydrinks/internal/cookbook"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
	"github.com/cory-johannsen/diceydrinks/internal/game/roller"
)

// RenderRecipe draws s as a bordered card. Parents left without a
// secondary are flagged.
func RenderRecipe(title string, s recipe.State) string {
	var lines []string
	lines = append(lines, styleTitle.Render(title))

	var shape []string
	if s.Type != "" {
		t := string(s.Type)
		shape = append(shape, strings.ToUpper(t[:1])+t[1:])
	}
	if s.Method != "" {
		shape = append(shape, string(s.Method))
	}
	if s.Style != "" {
		shape = append(shape, string(s.Style))
	}
	lines = append(lines, styleMuted.Render(strings.Join(shape, " · ")), "")

	sections := []struct {
		heading string
		items   []inventory.Item
	}{
		{"Spirits", s.Spirits},
		{"Mixers", s.Mixers},
		{"Additives", s.Additives},
	}
	for _, sec := range sections {
		if len(sec.items) == 0 {
			continue
		}
		lines = append(lines, styleHeading.Render(sec.heading))
		for _, it := range sec.items {
			lines = append(lines, "  • "+it.Name)
			for _, g := range s.Secondaries {
				if g.ParentID == it.ID {
					lines = append(lines, styleMuted.Render("      with "+g.Name))
				}
			}
		}
	}
	for _, p := range s.UnmatchedParents() {
		lines = append(lines, styleWarn.Render(fmt.Sprintf("  ! %s has no %s in rotation", p.Item.Name, p.Item.RequiresSecondary)))
	}
	return styleCard.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderEntry draws a saved cookbook entry.
func RenderEntry(e cookbook.Entry) string {
	head := fmt.Sprintf("%s  %s", e.DisplayName(), e.Stars())
	card := RenderRecipe(head, e.Recipe)
	var meta []string
	if !e.Date.IsZero() {
		meta = append(meta, e.Date.Format("2006-01-02"))
	}
	if e.Notes != "" {
		meta = append(meta, fmt.Sprintf("%q", e.Notes))
	}
	if len(meta) == 0 {
		return card
	}
	return lipgloss.JoinVertical(lipgloss.Left, card, styleMuted.Render(strings.Join(meta, "  ")))
}

// RenderStats draws the outcome of a balance simulation, most picked first.
func RenderStats(stats roller.Stats, names map[string]string) string {
	ids := make([]string, 0, len(stats.Picks))
	for id := range stats.Picks {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if c := cmp.Compare(stats.Picks[b], stats.Picks[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	width := 0
	for _, id := range ids {
		width = max(width, lipgloss.Width(label(id, names)))
	}
	lines := []string{styleTitle.Render(fmt.Sprintf("%d trials, %d without a solution", stats.Trials, stats.NoSolutions))}
	for _, id := range ids {
		f := stats.Frequency(id)
		bar := strings.Repeat("█", int(f*40+0.5))
		lines = append(lines, fmt.Sprintf("%-*s %6.1f%% %s", width, label(id, names), f*100, styleCursor.Render(bar)))
	}
	return strings.Join(lines, "\n")
}

func label(id string, names map[string]string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
