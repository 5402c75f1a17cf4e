// Package tui holds the Bubble Tea model, lipgloss styles and render
// helpers for the interactive calculator form.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette (ANSI 256).
const (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorHighlight = lipgloss.Color("214")
	ColorBorder    = lipgloss.Color("240")
	ColorMuted     = lipgloss.Color("241")
	ColorError     = lipgloss.Color("196")
	ColorOK        = lipgloss.Color("42")
)

//nolint:gochecknoglobals // Shared immutable styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ColumnTitleStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle       = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle       = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	FocusedStyle     = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	MutedStyle       = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	ErrorStyle       = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

// Labels are padded to this width in both columns.
const labelWidth = 18

// IconCursor marks the focused input row.
const IconCursor = "▸"
