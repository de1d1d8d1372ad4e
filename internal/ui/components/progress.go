// Package components renders diagnosis results for the terminal.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiready/internal/ui/theme"
)

// ScoreBar displays a horizontal bar for a category percentage.
type ScoreBar struct {
	Label string

	// LabelWidth pads the label so bars in a list line up.
	LabelWidth int

	// Percent is in [0, 100]; values outside are clamped.
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewScoreBar creates a new score bar.
func NewScoreBar(label string, percent float64, width int) ScoreBar {
	return ScoreBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: true,
		Width:       width,
	}
}

// View renders the score bar.
func (p ScoreBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += theme.Body.Render(label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 8 // "  100.0%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	pct := min(max(p.Percent, 0), 100)
	filled := int(float64(barWidth) * pct / 100)
	empty := barWidth - filled

	result += theme.BandColor(pct).Render(strings.Repeat(" ", filled))
	result += theme.BarEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += theme.Subtitle.Render(fmt.Sprintf("  %5.1f%%", pct))
	}

	return result
}
