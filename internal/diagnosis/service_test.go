package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/commentary"
	"github.com/abhisek/aiready/internal/llm"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
)

func newTestService(t *testing.T, comments *commentary.Service) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "diag.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(catalog.Default(), st.DiagnosisRepo(), comments, nil)
}

func TestSubmit_StoresScoredRecord(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	rec, err := svc.Submit(ctx, Submission{
		SessionID:    "s1",
		UserID:       "u1",
		FacilityName: "Harbor Clinic",
		Answers:      scoring.AnswerSet{"b1": 4, "b2": 99, "d1": 2},
		SubmittedAt:  at,
	})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Clinic", got.FacilityName)
	assert.True(t, got.DiagnosisDate.Equal(at))
	assert.Equal(t, 40, got.TotalScore)
	assert.Equal(t, 600, got.MaxScore)
	assert.Equal(t, 6.7, got.Percentage)
	assert.Equal(t, "E", got.Rank)

	require.Len(t, got.Categories, 6)
	biz := got.Categories[0]
	assert.Equal(t, "business", biz.Key)
	assert.Equal(t, 20, biz.Score)
	require.NotNil(t, biz.Diff)
	assert.Equal(t, -45, *biz.Diff)
	assert.NotEmpty(t, biz.Comment)

	require.Len(t, got.Answers, 30)
	b1, b2 := got.Answers[0], got.Answers[1]
	assert.Equal(t, "b1", b1.QuestionID)
	assert.Equal(t, 1, b1.Number)
	require.NotNil(t, b1.Score)
	assert.Equal(t, 20, *b1.Score)
	assert.Equal(t, store.UnansweredText, b2.Answer, "out-of-range index is unanswered")
	assert.Nil(t, b2.Score)
	assert.Nil(t, b2.Choice)
}

func TestSubmit_GeneratesSessionID(t *testing.T) {
	svc := newTestService(t, nil)
	rec, err := svc.Submit(context.Background(), Submission{})
	require.NoError(t, err)
	assert.Len(t, rec.SessionID, 36)
	assert.False(t, rec.DiagnosisDate.IsZero())
}

func TestSubmit_UsesCommentaryService(t *testing.T) {
	cat := catalog.Default()
	out := map[string]string{}
	for _, k := range cat.CategoryKeys() {
		out[string(k)] = "Advice on " + string(k)
	}
	content, err := json.Marshal(out)
	require.NoError(t, err)

	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	svc := newTestService(t, commentary.NewService(mock, cat, commentary.DefaultConfig(), nil))

	rec, err := svc.Submit(context.Background(), Submission{Answers: scoring.AnswerSet{}})
	require.NoError(t, err)
	assert.Equal(t, "Advice on data", rec.Categories[1].Comment)
}

func TestBuildRecord_PriorityAndBaselines(t *testing.T) {
	cat := catalog.Default()
	// Max out business and data, leave the rest empty.
	answers := scoring.AnswerSet{}
	for _, key := range []catalog.CategoryKey{catalog.CategoryBusiness, catalog.CategoryData} {
		for _, q := range cat.QuestionsByCategory(key) {
			answers[q.ID] = len(q.Choices) - 1
		}
	}
	res := scoring.Score(cat, answers)
	rec := BuildRecord(cat, res, Submission{Answers: answers}, nil)

	priorities := map[string]int{}
	for _, cr := range rec.Categories {
		priorities[cr.Key] = cr.Priority
		require.NotNil(t, cr.Baseline, cr.Key)
	}
	// Zero-score categories keep catalog order at the top of the list.
	assert.Equal(t, 1, priorities["organization"])
	assert.Equal(t, 2, priorities["technology"])
	assert.Equal(t, 5, priorities["business"])
	assert.Equal(t, 6, priorities["data"])
}

func TestGetAndDelete(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := svc.Submit(ctx, Submission{})
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, Submission{SessionID: "s", SubmittedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, Submission{SessionID: "other", SubmittedAt: base})
	require.NoError(t, err)

	recs, err := svc.List(ctx, store.ListOpts{SessionID: "s"})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.True(t, recs[0].DiagnosisDate.After(recs[2].DiagnosisDate))
}

func TestCompare(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, Submission{Answers: scoring.AnswerSet{"b1": 1}})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, Submission{Answers: scoring.AnswerSet{"b1": 4, "t1": 4}})
	require.NoError(t, err)

	cmp, err := svc.Compare(ctx, []int64{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, cmp.Rows, 6)
	assert.Equal(t, []int{5, 40}, cmp.Totals)
	assert.Equal(t, 35, cmp.TotalDelta)

	biz := cmp.Rows[0]
	assert.Equal(t, "Business Readiness", biz.Name)
	assert.Equal(t, []int{5, 20}, biz.Scores)
	assert.Equal(t, 15, biz.Delta)
}

func TestCompare_Errors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Compare(ctx, []int64{1})
	assert.ErrorIs(t, err, ErrCompareCount)
	_, err = svc.Compare(ctx, []int64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, ErrCompareCount)

	rec, err := svc.Submit(ctx, Submission{})
	require.NoError(t, err)
	_, err = svc.Compare(ctx, []int64{rec.ID, 999})
	assert.True(t, errors.Is(err, ErrNotFound))
}
