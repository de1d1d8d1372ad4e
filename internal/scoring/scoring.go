package scoring

import (
	"math"
	"sort"

	"github.com/abhisek/aiready/internal/catalog"
)

// CategoryScore is the raw score of one category.
type CategoryScore struct {
	Key        catalog.CategoryKey `json:"key"`
	Score      int                 `json:"score"`
	Max        int                 `json:"max"`
	Percentage float64             `json:"percentage"`
}

// Result is the outcome of scoring one answer set. Category slices are in
// catalog order; Priorities is ordered weakest first.
type Result struct {
	Categories   []CategoryScore
	Total        int
	Max          int
	Percentage   float64
	Rank         string
	RankLabel    string
	BaselineDiff map[catalog.CategoryKey]int
	Priorities   []CategoryScore
}

// Category returns the score of one category.
func (r Result) Category(key catalog.CategoryKey) (CategoryScore, bool) {
	for _, cs := range r.Categories {
		if cs.Key == key {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// Score aggregates answers against the catalog. Unknown ids, out-of-range
// indices and missing answers contribute nothing. Score never fails.
func Score(cat *catalog.Catalog, answers AnswerSet) Result {
	res := Result{
		BaselineDiff: make(map[catalog.CategoryKey]int),
	}

	for _, c := range cat.Categories() {
		cs := CategoryScore{Key: c.Key, Max: cat.CategoryMaxScore(c.Key)}
		for _, q := range c.Questions {
			idx, answered := answers[q.ID]
			if !answered {
				continue
			}
			if ch, ok := q.Choice(idx); ok {
				cs.Score += ch.Score
			}
		}
		cs.Percentage = CategoryPercentage(cs.Score, cs.Max)

		res.Categories = append(res.Categories, cs)
		res.Total += cs.Score
		res.Max += cs.Max

		if base, ok := cat.Baseline(c.Key); ok {
			res.BaselineDiff[c.Key] = cs.Score - base
		}
	}

	res.Percentage = CategoryPercentage(res.Total, res.Max)
	rank := Rank(res.Total)
	res.Rank = rank.Letter
	res.RankLabel = rank.Label
	res.Priorities = Prioritize(res.Categories)

	return res
}

// Prioritize returns a copy of scores sorted ascending by score. Ties keep
// their input order.
func Prioritize(scores []CategoryScore) []CategoryScore {
	out := make([]CategoryScore, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

// CategoryPercentage returns score/max*100 rounded to one decimal, or 0
// when max is 0.
func CategoryPercentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	return Round1(float64(score) / float64(maxScore) * 100)
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
