package diagnosis

import (
	"context"
	"fmt"

	"github.com/abhisek/aiready/internal/store"
)

// Compare loads the given diagnoses and lines them up per category in
// catalog order. Deltas are last minus first.
func (s *Service) Compare(ctx context.Context, ids []int64) (*Comparison, error) {
	if len(ids) < MinCompare || len(ids) > MaxCompare {
		return nil, fmt.Errorf("%w, got %d", ErrCompareCount, len(ids))
	}

	cmp := &Comparison{}
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		cmp.Records = append(cmp.Records, rec)
		cmp.Totals = append(cmp.Totals, rec.TotalScore)
	}
	cmp.TotalDelta = cmp.Totals[len(cmp.Totals)-1] - cmp.Totals[0]

	for _, c := range s.cat.Categories() {
		row := CompareRow{Key: string(c.Key), Name: c.Name}
		for _, rec := range cmp.Records {
			row.Scores = append(row.Scores, categoryScore(rec, row.Key))
		}
		row.Delta = row.Scores[len(row.Scores)-1] - row.Scores[0]
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp, nil
}

func categoryScore(rec *store.Diagnosis, key string) int {
	for _, cr := range rec.Categories {
		if cr.Key == key {
			return cr.Score
		}
	}
	return 0
}
