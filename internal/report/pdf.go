package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
)

const (
	pdfFontFamily   = "Report"
	pdfChartImage   = "radar"
	fallbackComment = "Improvement in this category is recommended."
	topPriorities   = 3
)

// pdfDoc wraps fpdf with the report's font and text translation.
type pdfDoc struct {
	*fpdf.Fpdf
	family string
	tr     func(string) string
}

func (d *pdfDoc) title(text string) {
	d.SetFont(d.family, "B", 22)
	d.SetTextColor(0x1E, 0x3A, 0x8A)
	d.MultiCell(0, 11, d.tr(text), "", "C", false)
	d.SetTextColor(0, 0, 0)
}

func (d *pdfDoc) heading(text string) {
	d.SetFont(d.family, "B", 16)
	d.SetTextColor(0x1E, 0x3A, 0x8A)
	d.MultiCell(0, 9, d.tr(text), "", "L", false)
	d.SetTextColor(0, 0, 0)
	d.Ln(3)
}

func (d *pdfDoc) subheading(text string) {
	d.SetFont(d.family, "B", 12)
	d.MultiCell(0, 7, d.tr(text), "", "L", false)
}

func (d *pdfDoc) body(text string) {
	d.SetFont(d.family, "", 10.5)
	d.MultiCell(0, 5.5, d.tr(text), "", "L", false)
}

func (d *pdfDoc) centered(text string, size float64) {
	d.SetFont(d.family, "", size)
	d.MultiCell(0, size*0.5, d.tr(text), "", "C", false)
}

// PDF renders a six-page A4 report: cover, summary with radar chart,
// category detail, top priorities, answers and next steps.
func (e *Exporter) PDF(rec *store.Diagnosis) ([]byte, error) {
	chartPNG, err := e.Chart(rec)
	if err != nil {
		return nil, e.fail(FormatPDF, err)
	}

	d := e.newPDF()
	e.coverPage(d, rec)
	e.summaryPage(d, rec, chartPNG)
	e.detailPage(d, rec)
	e.priorityPage(d, rec)
	e.answersPage(d, rec)
	e.nextStepsPage(d)

	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, e.fail(FormatPDF, err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) newPDF() *pdfDoc {
	f := fpdf.New("P", "mm", "A4", "")
	now := e.now()
	f.SetCreationDate(now)
	f.SetModificationDate(now)
	f.SetCatalogSort(true)
	f.SetTitle("AI Readiness Assessment Report", true)
	f.SetCreator("aiready", true)
	f.SetMargins(20, 20, 20)
	f.SetAutoPageBreak(true, 20)

	d := &pdfDoc{Fpdf: f}
	if e.font.ttf != nil {
		f.AddUTF8FontFromBytes(pdfFontFamily, "", e.font.ttf)
		f.AddUTF8FontFromBytes(pdfFontFamily, "B", e.font.ttf)
		d.family = pdfFontFamily
		d.tr = func(s string) string { return s }
	} else {
		d.family = "Helvetica"
		d.tr = f.UnicodeTranslatorFromDescriptor("")
	}

	f.SetFooterFunc(func() {
		f.SetY(-15)
		f.SetFont(d.family, "", 8)
		f.SetTextColor(0x80, 0x80, 0x80)
		f.CellFormat(0, 10, fmt.Sprintf("%d", f.PageNo()), "", 0, "C", false, 0, "")
		f.SetTextColor(0, 0, 0)
	})
	return d
}

func (e *Exporter) coverPage(d *pdfDoc, rec *store.Diagnosis) {
	d.AddPage()
	d.Ln(70)
	d.title("AI Readiness Assessment Report")
	d.Ln(18)
	if rec.FacilityName != "" {
		d.centered("Facility: "+rec.FacilityName, 13)
		d.Ln(6)
	}
	d.centered("Diagnosis date: "+rec.DiagnosisDate.Format("January 2, 2006"), 13)
	d.Ln(18)
	d.title(fmt.Sprintf("Total score: %d/%d", rec.TotalScore, rec.MaxScore))
	d.Ln(4)
	d.title(fmt.Sprintf("Readiness rank: %s", rec.Rank))
	d.centered(scoring.RankLabel(rec.Rank), 13)
}

func (e *Exporter) summaryPage(d *pdfDoc, rec *store.Diagnosis, chartPNG []byte) {
	d.AddPage()
	d.heading("Summary")
	d.body(fmt.Sprintf(
		"This assessment evaluates how ready your organization is to adopt AI across %d categories. "+
			"The total score is %d of %d points (%s), which places you in readiness rank %s: %s.",
		len(rec.Categories), rec.TotalScore, rec.MaxScore, percent(rec.Percentage),
		rec.Rank, scoring.RankLabel(rec.Rank)))
	d.Ln(6)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.RegisterImageOptionsReader(pdfChartImage, opts, bytes.NewReader(chartPNG))
	d.ImageOptions(pdfChartImage, 35, d.GetY(), 140, 140, false, opts, 0, "")
}

func (e *Exporter) detailPage(d *pdfDoc, rec *store.Diagnosis) {
	d.AddPage()
	d.heading("Category Detail")

	widths := []float64{60, 35, 30, 45}
	d.SetFont(d.family, "B", 10)
	d.SetFillColor(0x1E, 0x3A, 0x8A)
	d.SetTextColor(0xFF, 0xFF, 0xFF)
	for i, h := range []string{"Category", "Score", "Percentage", "Against baseline"} {
		d.CellFormat(widths[i], 8, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)

	d.SetFont(d.family, "", 10)
	d.SetTextColor(0, 0, 0)
	d.SetFillColor(0xF5, 0xF5, 0xDC)
	for _, cr := range rec.Categories {
		cells := []string{
			e.categoryName(cr.Key),
			fmt.Sprintf("%d/%d", cr.Score, cr.MaxScore),
			percent(cr.Percentage),
			fmt.Sprintf("%+d", e.diff(cr)),
		}
		for i, c := range cells {
			d.CellFormat(widths[i], 7, d.tr(c), "1", 0, "C", true, 0, "")
		}
		d.Ln(-1)
	}
	d.Ln(8)

	for _, cr := range rec.Categories {
		comment := cr.Comment
		if comment == "" {
			comment = fallbackComment
		}
		d.subheading(e.categoryName(cr.Key))
		d.body(fmt.Sprintf("Score: %d/%d (%s)\n%s", cr.Score, cr.MaxScore, percent(cr.Percentage), comment))
		d.Ln(4)
	}
}

func (e *Exporter) priorityPage(d *pdfDoc, rec *store.Diagnosis) {
	d.AddPage()
	d.heading(fmt.Sprintf("Top %d Priorities", topPriorities))

	for i, cr := range prioritized(rec.Categories, topPriorities) {
		d.subheading(fmt.Sprintf("%d. %s", i+1, e.categoryName(cr.Key)))
		d.body(fmt.Sprintf("Current score: %d/%d (%s)\nAgainst baseline: %s\n\nSuggestion: %s",
			cr.Score, cr.MaxScore, percent(cr.Percentage),
			describeDiff(e.diff(cr)),
			e.cat.Suggestion(catalog.CategoryKey(cr.Key))))
		d.Ln(6)
	}
}

func (e *Exporter) answersPage(d *pdfDoc, rec *store.Diagnosis) {
	d.AddPage()
	d.heading("Answers")

	current := ""
	for _, a := range rec.Answers {
		if a.Category != current {
			current = a.Category
			d.Ln(2)
			d.subheading(e.categoryName(a.Category))
		}
		answer := a.Answer
		if answer == "" {
			answer = store.UnansweredText
		}
		d.body(fmt.Sprintf("Q%d. %s\nAnswer: %s", a.Number, a.Question, answer))
		d.Ln(2)
	}
}

func (e *Exporter) nextStepsPage(d *pdfDoc) {
	d.AddPage()
	d.heading("Next Steps")
	d.subheading("Recommended actions")
	d.body("1. Start with the top priority categories listed in this report.\n" +
		"2. Assign an owner and a target date to each improvement.\n" +
		"3. Re-run the assessment after each improvement cycle to track progress.")
	d.Ln(6)
	d.subheading("Getting help")
	d.body("For a detailed review of these results or help planning your AI adoption, contact your advisor.")
}

// prioritized returns up to n categories, lowest score first. Ties keep
// record order.
func prioritized(cats []store.CategoryResult, n int) []store.CategoryResult {
	out := append([]store.CategoryResult(nil), cats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func describeDiff(diff int) string {
	switch {
	case diff > 0:
		return fmt.Sprintf("%d points above the industry baseline", diff)
	case diff < 0:
		return fmt.Sprintf("%d points below the industry baseline", -diff)
	}
	return "level with the industry baseline"
}
