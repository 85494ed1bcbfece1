package llm

import (
	"context"
	"sync"
)

// MockLLMClient is a configurable mock for testing LLM consumers.
// Set GenerateResponseFunc to control behavior in tests.
type MockLLMClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns an empty result and nil error.
	GenerateResponseFunc func(ctx context.Context, req *Request) (*GenerateResponseResult, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Provider is returned by GetProvider. Defaults to "mock".
	Provider string

	mu       sync.Mutex
	requests []*Request
}

// NewMockLLMClient creates a new mock with sensible defaults.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{
		Model:    "mock-model",
		Provider: "mock",
	}
}

// NewScriptedMockLLMClient returns a mock that replies with each response in
// turn and repeats the last one once the script runs out.
func NewScriptedMockLLMClient(responses ...string) *MockLLMClient {
	m := NewMockLLMClient()
	var i int
	var mu sync.Mutex
	m.GenerateResponseFunc = func(ctx context.Context, req *Request) (*GenerateResponseResult, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(responses) == 0 {
			return &GenerateResponseResult{}, nil
		}
		idx := i
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		i++
		return &GenerateResponseResult{Content: responses[idx]}, nil
	}
	return m
}

// GenerateResponse implements LLMClient.
func (m *MockLLMClient) GenerateResponse(ctx context.Context, req *Request) (*GenerateResponseResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, req)
	}
	return &GenerateResponseResult{}, nil
}

// Calls returns the number of GenerateResponse invocations.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns the requests received so far.
func (m *MockLLMClient) Requests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// GetModel implements LLMClient.
func (m *MockLLMClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetProvider implements LLMClient.
func (m *MockLLMClient) GetProvider() string {
	if m.Provider == "" {
		return "mock"
	}
	return m.Provider
}

var _ LLMClient = (*MockLLMClient)(nil)
