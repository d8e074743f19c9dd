// Package tui is the terminal surface: a dealer's-choice picker and the
// recipe card.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Choose  key.Binding
	Decline key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
	Decline: key.NewBinding(key.WithKeys("esc", "r"), key.WithHelp("esc", "let the dice decide")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

// Picker is the Bubble Tea model of a single dealer's-choice prompt.
type Picker struct {
	title   string
	options []string
	cursor  int

	chosen   int
	declined bool
	quit     bool
}

// NewPicker creates a Picker over options.
//
// Precondition: options must be non-empty.
func NewPicker(title string, options []string) Picker {
	return Picker{title: title, options: options, chosen: -1}
}

// Chosen returns the index of the chosen option, or -1.
func (p Picker) Chosen() int { return p.chosen }

// Declined reports whether the person handed the choice back to the dice.
func (p Picker) Declined() bool { return p.declined }

// Quit reports whether the person asked to quit.
func (p Picker) Quit() bool { return p.quit }

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd { return nil }

// Update moves the cursor and ends the program once a decision is made.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(km, keys.Down):
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case key.Matches(km, keys.Choose):
		p.chosen = p.cursor
		return p, tea.Quit
	case key.Matches(km, keys.Decline):
		p.declined = true
		return p, tea.Quit
	case key.Matches(km, keys.Quit):
		p.quit = true
		return p, tea.Quit
	}
	return p, nil
}

// View renders the prompt.
func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("🃏 Dealer's choice: "+p.title) + "\n\n")
	for i, opt := range p.options {
		if i == p.cursor {
			b.WriteString(styleCursor.Render("> "+opt) + "\n")
			continue
		}
		b.WriteString(styleOption.Render("  "+opt) + "\n")
	}
	help := []string{}
	for _, k := range []key.Binding{keys.Up, keys.Down, keys.Choose, keys.Decline, keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n" + styleHelp.Render(strings.Join(help, " • ")) + "\n")
	return b.String()
}
