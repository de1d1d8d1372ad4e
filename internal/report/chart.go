package report

import (
	"fmt"

	"github.com/abhisek/aiready/internal/report/chart"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
)

// Chart renders the respondent's category percentages against the
// baselines as a radar PNG.
func (e *Exporter) Chart(rec *store.Diagnosis) ([]byte, error) {
	r := chart.Radar{Font: e.font.parsed}
	respondent := chart.Series{Name: "Your organization"}
	baseline := chart.Series{Name: "Industry baseline"}
	for _, cr := range rec.Categories {
		r.Labels = append(r.Labels, e.categoryName(cr.Key))
		respondent.Values = append(respondent.Values, scoring.CategoryPercentage(cr.Score, cr.MaxScore))
		baseline.Values = append(baseline.Values, float64(e.baseline(cr)))
	}
	r.Series = []chart.Series{respondent, baseline}

	out, err := r.PNG()
	if err != nil {
		return nil, e.fail(FormatChart, err)
	}
	return out, nil
}

// CompareChart overlays several records on one radar, one series per
// record. Axes follow the catalog; categories a record lacks plot as 0.
func (e *Exporter) CompareChart(recs []*store.Diagnosis) ([]byte, error) {
	r := chart.Radar{Font: e.font.parsed}
	keys := e.cat.CategoryKeys()
	for _, k := range keys {
		r.Labels = append(r.Labels, e.cat.DisplayName(k))
	}
	for _, rec := range recs {
		byKey := make(map[string]store.CategoryResult, len(rec.Categories))
		for _, cr := range rec.Categories {
			byKey[cr.Key] = cr
		}
		s := chart.Series{Name: fmt.Sprintf("#%d %s", rec.ID, rec.DiagnosisDate.Format("2006-01-02"))}
		for _, k := range keys {
			cr := byKey[string(k)]
			s.Values = append(s.Values, scoring.CategoryPercentage(cr.Score, cr.MaxScore))
		}
		r.Series = append(r.Series, s)
	}

	out, err := r.PNG()
	if err != nil {
		return nil, e.fail(FormatChart, err)
	}
	return out, nil
}
