// Package theme holds the terminal palette and styles used to print
// diagnosis results.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// Deltas
var (
	Gain = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Loss = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Bars
var (
	BarEmpty = lipgloss.NewStyle().
		Background(Border)
)

// BandColor returns the bar color for a percentage in [0, 100].
func BandColor(pct float64) lipgloss.Style {
	var c = Error
	switch {
	case pct >= 80:
		c = Success
	case pct >= 60:
		c = Secondary
	case pct >= 40:
		c = Warning
	}
	return lipgloss.NewStyle().Background(c)
}

// RankStyle returns the style for a rank letter.
func RankStyle(rank string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch rank {
	case "A", "B":
		return s.Foreground(Success)
	case "C":
		return s.Foreground(Secondary)
	case "D":
		return s.Foreground(Warning)
	default:
		return s.Foreground(Error)
	}
}
