package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/abhisek/aiready/internal/store"
)

const csvDateLayout = "2006-01-02 15:04:05"

// SummaryCSV renders the overall result followed by one row per category.
func (e *Exporter) SummaryCSV(rec *store.Diagnosis) ([]byte, error) {
	rows := [][]string{
		{"date", "facility", "total score", "percentage", "rank"},
		{
			rec.DiagnosisDate.Format(csvDateLayout),
			rec.FacilityName,
			fmt.Sprintf("%d/%d", rec.TotalScore, rec.MaxScore),
			percent(rec.Percentage),
			rec.Rank,
		},
		{},
		{"category", "score", "percentage", "baseline diff"},
	}
	for _, cr := range rec.Categories {
		rows = append(rows, []string{
			e.categoryName(cr.Key),
			fmt.Sprintf("%d/%d", cr.Score, cr.MaxScore),
			percent(cr.Percentage),
			fmt.Sprintf("%+d", e.diff(cr)),
		})
	}
	return e.writeCSV(FormatCSV, rows)
}

// AnswersCSV renders one row per question in catalog order.
func (e *Exporter) AnswersCSV(rec *store.Diagnosis) ([]byte, error) {
	rows := [][]string{{"category", "question number", "question text", "answer text", "score"}}
	for _, a := range rec.Answers {
		answer, score := a.Answer, ""
		if a.Score != nil {
			score = strconv.Itoa(*a.Score)
		}
		if answer == "" {
			answer = store.UnansweredText
		}
		rows = append(rows, []string{
			e.categoryName(a.Category),
			strconv.Itoa(a.Number),
			a.Question,
			answer,
			score,
		})
	}
	return e.writeCSV(FormatAnswersCSV, rows)
}

func (e *Exporter) writeCSV(format string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, e.fail(format, err)
	}
	return buf.Bytes(), nil
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
