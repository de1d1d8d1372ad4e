package commentary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/llm"
	"github.com/abhisek/aiready/internal/scoring"
)

func sampleResult(t *testing.T) (*catalog.Catalog, scoring.Result) {
	t.Helper()
	cat := catalog.Default()
	answers := scoring.AnswerSet{"b1": 4, "b2": 4, "d1": 0, "t1": 2}
	return cat, scoring.Score(cat, answers)
}

func fullResponse(cat *catalog.Catalog) json.RawMessage {
	out := map[string]string{}
	for _, k := range cat.CategoryKeys() {
		out[string(k)] = "LLM says " + string(k)
	}
	b, _ := json.Marshal(out)
	return b
}

func TestComments_UsesProvider(t *testing.T) {
	cat, res := sampleResult(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: fullResponse(cat)})
	svc := NewService(mock, cat, DefaultConfig(), nil)

	got := svc.Comments(context.Background(), res)

	require.Len(t, got, len(cat.Categories()))
	assert.Equal(t, "LLM says business", got[catalog.CategoryBusiness])
	require.Equal(t, 1, mock.CallCount())

	req := mock.Calls[0]
	require.NotNil(t, req.Schema)
	assert.Equal(t, "category-commentary", req.Schema.Name)
	assert.Zero(t, req.Temperature)
	assert.Contains(t, req.Messages[0].Content, "Business Readiness")
	assert.Contains(t, req.Messages[0].Content, "against the industry baseline")
}

func TestComments_FallsBackOnError(t *testing.T) {
	cat, res := sampleResult(t)
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")})
	svc := NewService(mock, cat, DefaultConfig(), nil)

	got := svc.Comments(context.Background(), res)
	assert.Equal(t, CannedComments(res), got)
}

func TestComments_FallsBackOnPartialResponse(t *testing.T) {
	cat, res := sampleResult(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"business":"only one"}`)})
	svc := NewService(mock, cat, DefaultConfig(), nil)

	got := svc.Comments(context.Background(), res)
	assert.Equal(t, CannedComments(res), got)
}

func TestComments_FallsBackOnMalformedResponse(t *testing.T) {
	cat, res := sampleResult(t)
	for _, body := range []string{`not json`, `["business"]`, `{"business": 3}`} {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
		svc := NewService(mock, cat, DefaultConfig(), nil)
		assert.Equal(t, CannedComments(res), svc.Comments(context.Background(), res), body)
	}
}

func TestComments_DisabledOrNoProvider(t *testing.T) {
	cat, res := sampleResult(t)

	noProvider := NewService(nil, cat, DefaultConfig(), nil)
	assert.Equal(t, CannedComments(res), noProvider.Comments(context.Background(), res))

	mock := llm.NewMockProvider()
	cfg := DefaultConfig()
	cfg.Enabled = false
	disabled := NewService(mock, cat, cfg, nil)
	assert.Equal(t, CannedComments(res), disabled.Comments(context.Background(), res))
	assert.Zero(t, mock.CallCount())
}

func TestComments_EchoProviderSatisfiesSchema(t *testing.T) {
	cat, res := sampleResult(t)
	svc := NewService(llm.NewEchoProvider(), cat, DefaultConfig(), nil)

	got := svc.Comments(context.Background(), res)
	for _, k := range cat.CategoryKeys() {
		assert.True(t, strings.HasPrefix(got[k], "Mock commentary"), "category %s: %q", k, got[k])
	}
}

func TestCanned_Bands(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "well prepared"},
		{80, "well prepared"},
		{79.9, "Foundations are in place"},
		{60, "Foundations are in place"},
		{40, "Preparation has started"},
		{39.9, "Improvement in this category is recommended"},
		{0, "Improvement in this category is recommended"},
	}
	for _, tt := range tests {
		assert.Contains(t, Canned(tt.pct), tt.want, "percentage %v", tt.pct)
	}
}

func TestSchemaFor_CoversEveryCategory(t *testing.T) {
	cat := catalog.Default()
	s := schemaFor(cat)
	props := s.Definition["properties"].(map[string]any)
	assert.Len(t, props, len(cat.Categories()))
	assert.Len(t, s.Definition["required"], len(cat.Categories()))
}
