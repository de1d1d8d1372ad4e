package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

// stubServer answers every request with status and body and records the
// last request path and body.
type stubServer struct {
	*httptest.Server
	path string
	body string
}

func newStubServer(t *testing.T, status int, body string) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.path = r.URL.Path
		s.body = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func commentaryRequest() Request {
	return Request{
		System:      "You review readiness scores.",
		Messages:    []Message{{Role: RoleUser, Content: "business: 40%"}},
		Schema:      commentSchema("category-commentary", "business"),
		MaxTokens:   256,
		Temperature: 0,
	}
}

const anthropicOK = `{
	"id": "msg_1", "type": "message", "role": "assistant",
	"model": "claude-haiku-4-5-20251001",
	"content": [{"type": "text", "text": "{\"business\":\"Define owners.\"}"}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 12, "output_tokens": 7}
}`

func TestAnthropicProvider(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, anthropicOK)
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("ModelID = %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), commentaryRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"business":"Define owners."}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 19 || resp.StopReason != "end" {
		t.Errorf("usage = %+v stop = %q", resp.Usage, resp.StopReason)
	}
	if !strings.HasSuffix(srv.path, "/messages") {
		t.Errorf("path = %q", srv.path)
	}
	if !strings.Contains(srv.body, "You review readiness scores.") {
		t.Errorf("system prompt not sent: %s", srv.body)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	truncated := strings.Replace(anthropicOK, `"end_turn"`, `"max_tokens"`, 1)
	invalid := strings.Replace(anthropicOK, `{\"business\":\"Define owners.\"}`, `{\"other\":1}`, 1)

	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
			func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"server error", http.StatusInternalServerError, `{"type":"error","error":{"type":"api_error","message":"boom"}}`,
			func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{"truncated", http.StatusOK, truncated,
			func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) }},
		{"schema mismatch", http.StatusOK, invalid,
			func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStubServer(t, tt.status, tt.body)
			p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku", BaseURL: srv.URL})
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Generate(context.Background(), commentaryRequest())
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T %v", err, err)
			}
		})
	}
}

const openaiOK = `{
	"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o-mini",
	"choices": [{"index": 0, "finish_reason": "stop",
		"message": {"role": "assistant", "content": "{\"business\":\"Define owners.\"}"}}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestOpenAIProvider(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, openaiOK)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Generate(context.Background(), commentaryRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"business":"Define owners."}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 || resp.Model != "gpt-4o-mini" {
		t.Errorf("usage = %+v model = %q", resp.Usage, resp.Model)
	}
	if srv.path != "/chat/completions" {
		t.Errorf("path = %q", srv.path)
	}
	if !strings.Contains(srv.body, `"json_schema"`) {
		t.Errorf("response format not sent: %s", srv.body)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	srv := newStubServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Generate(context.Background(), commentaryRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T %v", err, err)
	}
}

func TestOpenRouterProvider(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, openaiOK)
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-exp", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-exp" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), commentaryRequest()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(srv.body, "google/gemini-2.0-flash-exp") {
		t.Errorf("model not forwarded: %s", srv.body)
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}

const geminiOK = `{
	"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"business\":\"Define owners.\"}"}]},
		"finishReason": "STOP"}],
	"usageMetadata": {"promptTokenCount": 8, "candidatesTokenCount": 6, "totalTokenCount": 14}
}`

func TestGeminiProvider(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, geminiOK)
	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "k", Model: "gemini-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Generate(context.Background(), commentaryRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"business":"Define owners."}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 14 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if !strings.Contains(srv.path, "gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", srv.path)
	}
}

func TestGeminiProvider_ServerError(t *testing.T) {
	srv := newStubServer(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "k", Model: "gemini-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Generate(context.Background(), commentaryRequest())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T %v", err, err)
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	s := buildGeminiSchema(commentSchema("x", "business", "data").Definition)
	if s.Type != genai.TypeObject {
		t.Errorf("type = %q", s.Type)
	}
	if len(s.Properties) != 2 || s.Properties["data"].Type != genai.TypeString {
		t.Errorf("properties = %+v", s.Properties)
	}
	if len(s.Required) != 2 {
		t.Errorf("required = %v", s.Required)
	}
}
