package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and offline runs.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Fallback, when set, answers requests once the queue is empty.
	Fallback func(Request) MockResponse
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewEchoProvider returns a MockProvider that answers every structured
// request with a placeholder string for each required schema property.
func NewEchoProvider() *MockProvider {
	return &MockProvider{Fallback: echoSchema}
}

// Generate returns the next canned response. With an empty queue and no
// Fallback it fails with ErrProviderUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		resp = m.Fallback(req)
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func echoSchema(req Request) MockResponse {
	if req.Schema == nil {
		return MockResponse{Content: json.RawMessage(`"mock response"`)}
	}
	out := map[string]string{}
	for _, key := range stringList(req.Schema.Definition["required"]) {
		out[key] = "Mock commentary for " + key + "."
	}
	content, err := json.Marshal(out)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{
		Content: content,
		Usage:   Usage{InputTokens: len(req.System) / 4, OutputTokens: len(content) / 4},
	}
}
