package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func sampleDiagnosis(date time.Time) *Diagnosis {
	return &Diagnosis{
		FacilityName:  "Sunrise Care Home",
		DiagnosisDate: date,
		TotalScore:    320,
		MaxScore:      600,
		Percentage:    53.3,
		Rank:          "E",
		Categories: []CategoryResult{
			{Key: "business", Score: 50, MaxScore: 100, Percentage: 50, Baseline: intPtr(65), Diff: intPtr(-15), Priority: 1, Comment: "Needs work."},
			{Key: "data", Score: 70, MaxScore: 100, Percentage: 70, Priority: 2},
		},
		Answers: []AnswerRecord{
			{QuestionID: "b1", Category: "business", Number: 1, Question: "Q?", Answer: "A", Choice: intPtr(2), Score: intPtr(10)},
			{QuestionID: "b2", Category: "business", Number: 2, Question: "Q2?", Answer: "(unanswered)"},
		},
		SessionID: "sess-1",
		UserID:    "user-1",
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.db == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.db

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestDiagnosisRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	date := time.Date(2026, 3, 14, 9, 30, 15, 123456789, time.FixedZone("JST", 9*3600))
	in := sampleDiagnosis(date)

	id, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, id, in.ID)
	assert.False(t, in.CreatedAt.IsZero())

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.FacilityName, got.FacilityName)
	assert.True(t, got.DiagnosisDate.Equal(date), "date %v != %v", got.DiagnosisDate, date)
	assert.True(t, got.CreatedAt.Equal(in.CreatedAt))
	assert.Equal(t, in.TotalScore, got.TotalScore)
	assert.Equal(t, in.MaxScore, got.MaxScore)
	assert.Equal(t, in.Percentage, got.Percentage)
	assert.Equal(t, in.Rank, got.Rank)
	assert.Equal(t, in.Categories, got.Categories)
	assert.Equal(t, in.Answers, got.Answers)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, "user-1", got.UserID)
}

func TestDiagnosisSnapshotIsolation(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	in := sampleDiagnosis(time.Now())
	id, err := repo.Create(ctx, in)
	require.NoError(t, err)

	// Mutating the caller's copy must not affect the stored record.
	in.Categories[0].Score = 999
	*in.Answers[0].Score = 999

	first, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, first.Categories[0].Score)
	assert.Equal(t, 10, *first.Answers[0].Score)

	// Mutating a returned copy must not affect later reads.
	first.Categories[0].Score = 1
	second, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, second.Categories[0].Score)
}

func TestDiagnosisGetMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.DiagnosisRepo().Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiagnosisEmptyOptionalFields(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, &Diagnosis{DiagnosisDate: time.Now(), Rank: "E", MaxScore: 600})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", got.FacilityName)
	assert.Equal(t, "", got.SessionID)
	assert.Empty(t, got.Categories)
	assert.Empty(t, got.Answers)
}

func TestDiagnosisListOrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Insert out of chronological order; two records share a timestamp.
	dates := []time.Time{
		base.Add(2 * time.Hour),
		base,
		base.Add(48 * time.Hour),
		base.Add(2 * time.Hour),
	}
	var ids []int64
	for _, d := range dates {
		id, err := repo.Create(ctx, sampleDiagnosis(d))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := repo.List(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	gotIDs := []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID}
	assert.Equal(t, []int64{ids[2], ids[3], ids[0], ids[1]}, gotIDs)

	limited, err := repo.List(ctx, ListOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, ids[2], limited[0].ID)
}

func TestDiagnosisListBySession(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	a := sampleDiagnosis(time.Now())
	a.SessionID = "alpha"
	b := sampleDiagnosis(time.Now())
	b.SessionID = "beta"
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)
	_, err = repo.Create(ctx, b)
	require.NoError(t, err)

	got, err := repo.List(ctx, ListOpts{SessionID: "beta"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "beta", got[0].SessionID)

	none, err := repo.List(ctx, ListOpts{SessionID: "gamma"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDiagnosisDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, sampleDiagnosis(time.Now()))
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports absence")

	ok, err = repo.Delete(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiagnosisIDsNeverReused(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx, sampleDiagnosis(time.Now()))
	require.NoError(t, err)
	_, err = repo.Delete(ctx, first)
	require.NoError(t, err)

	second, err := repo.Create(ctx, sampleDiagnosis(time.Now()))
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestDiagnosisFailedCreateKeepsID(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	_, err := s.db.Exec("DROP TABLE diagnoses")
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleDiagnosis(time.Now()))
	require.Error(t, err)

	require.NoError(t, migrate(ctx, s.drv))
	id, err := repo.Create(ctx, sampleDiagnosis(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "a rolled back insert does not consume an id")
}

func TestDiagnosisConcurrentCreate(t *testing.T) {
	s := openTestStore(t)
	repo := s.DiagnosisRepo()
	ctx := context.Background()

	const n = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.Create(ctx, sampleDiagnosis(time.Now()))
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, ids, n)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "commentary", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "mock", Model: "m1", Purpose: "commentary", InputTokens: 20, OutputTokens: 15, LatencyMs: 300, Success: false, ErrorMessage: "boom"},
		{Provider: "mock", Model: "m2", Purpose: "other", InputTokens: 1, OutputTokens: 1, LatencyMs: 50, Success: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	listed, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "other", listed[0].Purpose, "newest first")
	assert.Greater(t, listed[0].Sequence, listed[1].Sequence)

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "commentary"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	last := filtered[1]
	got, err := repo.GetLLMEvent(ctx, last.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "req", got.RequestBody)
	assert.Equal(t, "resp", got.ResponseBody)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "commentary", Calls: 2, InputTokens: 30, OutputTokens: 20, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "m2", Calls: 1, InputTokens: 1, OutputTokens: 1}, byModel[1])
}

func TestTimeLayoutSortsLexically(t *testing.T) {
	early := formatTime(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	late := formatTime(time.Date(2026, 1, 1, 9, 0, 0, 5, time.UTC))
	assert.Less(t, early, late)
	assert.Len(t, early, len(late))
}
