package scoring

import (
	"encoding/json"
	"math"
)

// AnswerSet maps a question id to the 0-based index of the chosen answer.
// A question absent from the map is unanswered.
type AnswerSet map[string]int

// ParseAnswerSet normalizes untrusted input into an AnswerSet. Integer
// values and whole-number floats are kept; anything else (strings,
// fractions, booleans, null, nested values) is treated as unanswered.
func ParseAnswerSet(raw map[string]any) AnswerSet {
	out := make(AnswerSet, len(raw))
	for id, v := range raw {
		if idx, ok := toIndex(v); ok {
			out[id] = idx
		}
	}
	return out
}

func toIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return wholeFloat(n)
	case float32:
		return wholeFloat(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return wholeFloat(f)
		}
	}
	return 0, false
}

func wholeFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
