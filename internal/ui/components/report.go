package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/diagnosis"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
	"github.com/abhisek/aiready/internal/ui/theme"
)

// DefaultWidth is the render width used when the caller has none.
const DefaultWidth = 72

const dateLayout = "2006-01-02 15:04"

// Summary renders one diagnosis: headline, per-category bars and the
// categories to address first.
func Summary(rec *store.Diagnosis, cat *catalog.Catalog, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder

	title := fmt.Sprintf("Diagnosis #%d", rec.ID)
	if rec.FacilityName != "" {
		title += "  " + rec.FacilityName
	}
	b.WriteString(theme.Title.Render(title) + "\n")
	b.WriteString(theme.Subtitle.Render(rec.DiagnosisDate.Local().Format(dateLayout)) + "\n\n")

	headline := fmt.Sprintf("Total %d / %d (%.1f%%)   Rank ", rec.TotalScore, rec.MaxScore, rec.Percentage)
	b.WriteString(theme.Body.Render(headline))
	b.WriteString(theme.RankStyle(rec.Rank).Render(rec.Rank))
	b.WriteString(theme.Subtitle.Render("  " + scoring.RankLabel(rec.Rank)))
	b.WriteString("\n\n")

	names := make([]string, len(rec.Categories))
	labelWidth := 0
	for i, cr := range rec.Categories {
		names[i] = cat.DisplayName(catalog.CategoryKey(cr.Key))
		labelWidth = max(labelWidth, lipgloss.Width(names[i]))
	}
	for i, cr := range rec.Categories {
		bar := NewScoreBar(names[i], cr.Percentage, width)
		bar.LabelWidth = labelWidth
		b.WriteString(bar.View())
		if cr.Diff != nil {
			b.WriteString("  " + Delta(*cr.Diff))
		}
		b.WriteString("\n")
	}

	if hasPriorities(rec.Categories) {
		b.WriteString("\n" + theme.Header.Render("Priorities") + "\n")
		for p := 1; p <= 3; p++ {
			for _, cr := range rec.Categories {
				if cr.Priority != p {
					continue
				}
				key := catalog.CategoryKey(cr.Key)
				fmt.Fprintf(&b, "%d. %s\n", p, cat.DisplayName(key))
				b.WriteString("   " + theme.Hint.Render(cat.Suggestion(key)) + "\n")
			}
		}
	}

	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func hasPriorities(cats []store.CategoryResult) bool {
	for _, cr := range cats {
		if cr.Priority >= 1 && cr.Priority <= 3 {
			return true
		}
	}
	return false
}

// Delta renders a signed difference, colored by direction.
func Delta(d int) string {
	switch {
	case d > 0:
		return theme.Gain.Render(fmt.Sprintf("+%d", d))
	case d < 0:
		return theme.Loss.Render(fmt.Sprintf("%d", d))
	default:
		return theme.Subtitle.Render("±0")
	}
}

// History renders a list of diagnoses as a table, in the given order.
func History(recs []store.Diagnosis) string {
	if len(recs) == 0 {
		return theme.Hint.Render("No diagnoses recorded.")
	}

	rows := [][]string{{"ID", "Date", "Facility", "Score", "%", "Rank"}}
	for _, r := range recs {
		facility := r.FacilityName
		if facility == "" {
			facility = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.DiagnosisDate.Local().Format(dateLayout),
			facility,
			fmt.Sprintf("%d/%d", r.TotalScore, r.MaxScore),
			fmt.Sprintf("%.1f", r.Percentage),
			r.Rank,
		})
	}
	return renderTable(rows)
}

// Comparison renders the category-by-category comparison table.
func Comparison(cmp *diagnosis.Comparison) string {
	header := []string{"Category"}
	for _, r := range cmp.Records {
		header = append(header, fmt.Sprintf("#%d %s", r.ID, r.DiagnosisDate.Local().Format("2006-01-02")))
	}
	header = append(header, "Delta")

	rows := [][]string{header}
	for _, row := range cmp.Rows {
		cells := []string{row.Name}
		for _, s := range row.Scores {
			cells = append(cells, fmt.Sprintf("%d", s))
		}
		cells = append(cells, Delta(row.Delta))
		rows = append(rows, cells)
	}
	total := []string{"Total"}
	for _, t := range cmp.Totals {
		total = append(total, fmt.Sprintf("%d", t))
	}
	total = append(total, Delta(cmp.TotalDelta))
	rows = append(rows, total)

	return renderTable(rows)
}

// renderTable lays rows out in left-aligned columns. The first row is the
// header.
func renderTable(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		for i, cell := range row {
			text := cell
			if i < len(row)-1 {
				text += strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2)
			}
			if ri == 0 {
				text = theme.Header.Render(text)
			}
			b.WriteString(text)
		}
		if ri < len(rows)-1 {
			b.WriteString("\n")
		}
		if ri == 0 {
			total := 0
			for _, w := range widths {
				total += w + 2
			}
			b.WriteString(theme.Subtitle.Render(strings.Repeat("─", total-2)) + "\n")
		}
	}
	return b.String()
}
