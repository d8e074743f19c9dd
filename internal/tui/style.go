package tui

import "github.com/charmbracelet/lipgloss"

// Styles used throughout the TUI.
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	styleCursor = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1)

	styleHeading = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("228"))

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)
