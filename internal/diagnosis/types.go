package diagnosis

import (
	"errors"
	"time"

	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
)

// Compare accepts between MinCompare and MaxCompare records.
const (
	MinCompare = 2
	MaxCompare = 5
)

var (
	// ErrNotFound is returned when a diagnosis id does not exist.
	ErrNotFound = errors.New("diagnosis not found")

	// ErrCompareCount is returned when Compare gets too few or too many ids.
	ErrCompareCount = errors.New("compare needs 2 to 5 diagnoses")
)

// Submission is one completed questionnaire. All session context is
// carried here explicitly.
type Submission struct {
	SessionID    string
	UserID       string
	FacilityName string
	Answers      scoring.AnswerSet

	// SubmittedAt becomes the diagnosis date. Zero means now.
	SubmittedAt time.Time
}

// Comparison lines up several diagnoses category by category.
type Comparison struct {
	Records []*store.Diagnosis
	Rows    []CompareRow

	// Totals holds each record's total score, in Records order.
	Totals []int

	// TotalDelta is the last record's total minus the first's.
	TotalDelta int
}

// CompareRow is one category across the compared records.
type CompareRow struct {
	Key    string
	Name   string
	Scores []int
	Delta  int
}
