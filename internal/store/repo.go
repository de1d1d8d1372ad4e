package store

import (
	"context"
	"time"
)

// Diagnosis is a persisted questionnaire result. Records are immutable:
// there is no update operation, and every read returns a fresh copy.
type Diagnosis struct {
	ID            int64            `json:"id"`
	FacilityName  string           `json:"facility_name"`
	DiagnosisDate time.Time        `json:"diagnosis_date"`
	TotalScore    int              `json:"total_score"`
	MaxScore      int              `json:"max_score"`
	Percentage    float64          `json:"percentage"`
	Rank          string           `json:"rank"`
	Categories    []CategoryResult `json:"categories"`
	Answers       []AnswerRecord   `json:"answers"`
	SessionID     string           `json:"session_id"`
	UserID        string           `json:"user_id"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CategoryResult is the stored score of one category. Display names are
// not stored; they are resolved from the catalog when presenting.
type CategoryResult struct {
	Key        string  `json:"key"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`

	// Baseline and Diff are nil when the category has no baseline.
	Baseline *int `json:"baseline,omitempty"`
	Diff     *int `json:"diff,omitempty"`

	// Priority is the 1-based position in improvement order.
	Priority int    `json:"priority"`
	Comment  string `json:"comment,omitempty"`
}

// UnansweredText stands in for the answer text of a skipped question.
const UnansweredText = "(unanswered)"

// AnswerRecord is one resolved question/answer pair.
type AnswerRecord struct {
	QuestionID string `json:"question_id"`
	Category   string `json:"category"`
	Number     int    `json:"number"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`

	// Choice and Score are nil for unanswered questions.
	Choice *int `json:"choice,omitempty"`
	Score  *int `json:"score,omitempty"`
}

// ListOpts configures diagnosis listing.
type ListOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // only records of this session when set
}

// DiagnosisRepo persists diagnosis records.
type DiagnosisRepo interface {
	// Create stores a new record and returns its id. The id field of d is
	// ignored on input and set on success.
	Create(ctx context.Context, d *Diagnosis) (int64, error)

	// Get returns the record with the given id, or nil if none exists.
	Get(ctx context.Context, id int64) (*Diagnosis, error)

	// List returns records, most recent diagnosis first.
	List(ctx context.Context, opts ListOpts) ([]Diagnosis, error)

	// Delete removes a record. It reports false when the id is unknown.
	Delete(ctx context.Context, id int64) (bool, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // only events with this purpose when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage per purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage per model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
