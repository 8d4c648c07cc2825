package commands

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Brand colors
var (
	ColorAccent  = lipgloss.Color("#8b5cf6") // Violet accent
	ColorSuccess = lipgloss.Color("#22c55e") // Green
	ColorWarning = lipgloss.Color("#eab308") // Yellow
	ColorError   = lipgloss.Color("#ef4444") // Red
	ColorInfo    = lipgloss.Color("#3b82f6") // Blue
	ColorMuted   = lipgloss.Color("#6b7280") // Gray
	ColorDim     = lipgloss.Color("#4b5563") // Darker gray
	ColorWhite   = lipgloss.Color("#f9fafb") // Off-white
)

// isTTY reports whether stdout is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Semantic text styles
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	StyleAccent = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleInfo = lipgloss.NewStyle().
			Foreground(ColorInfo)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleDim = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(14)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorWhite)
)

// Box styles
var (
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)

	StyleBoxSuccess = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 1)
)
