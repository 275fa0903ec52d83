package tui

import "charm.land/lipgloss/v2"

// Color palette.
var (
	colPrimary = lipgloss.Color("#8B5CF6") // Vivid Purple
	colAccent  = lipgloss.Color("#F97316") // Orange
	colSuccess = lipgloss.Color("#22C55E") // Green
	colError   = lipgloss.Color("#F43F5E") // Rose
	colText    = lipgloss.Color("#F8FAFC") // White
	colDim     = lipgloss.Color("#94A3B8") // Slate
	colBorder  = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colPrimary)

	bodyStyle = lipgloss.NewStyle().
			Foreground(colText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colDim).
			Italic(true)

	correctStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colSuccess)

	wrongStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colError)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colBorder).
			Padding(1, 2)

	beliefStyle = lipgloss.NewStyle().
			Foreground(colAccent)
)
