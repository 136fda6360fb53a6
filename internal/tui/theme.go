package tui

import "charm.land/lipgloss/v2"

// Palette: muted, high-contrast for long reading sessions.
var (
	colorPrimary   = lipgloss.Color("#6366F1") // Indigo
	colorSecondary = lipgloss.Color("#0EA5E9") // Sky
	colorWarn      = lipgloss.Color("#F59E0B") // Amber
	colorSuccess   = lipgloss.Color("#22C55E")
	colorError     = lipgloss.Color("#EF4444")
	colorText      = lipgloss.Color("#F1F5F9")
	colorTextDim   = lipgloss.Color("#94A3B8")
	colorBgCard    = lipgloss.Color("#1E293B")
	colorBorder    = lipgloss.Color("#334155")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(colorText)

	correctStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	incorrectStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Background(colorBgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)
)
