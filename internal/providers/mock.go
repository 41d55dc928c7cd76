package providers

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a scripted LLMClient for orchestrator and stage tests,
// avoiding network calls while exercising the real ChatRequest/ChatResult
// contract. Safe for concurrent use by a worker pool.
type MockClient struct {
	// Responses is consumed in order, one per Chat call. When exhausted,
	// the last entry repeats.
	Responses []MockResponse

	mu    sync.Mutex
	calls int
}

// MockResponse scripts a single Chat call's outcome.
type MockResponse struct {
	Result *ChatResult
	Err    error
}

// Name returns the mock provider identifier.
func (m *MockClient) Name() string { return "mock" }

// Chat returns the next scripted response, or an error if none were
// configured.
func (m *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	m.mu.Lock()
	if len(m.Responses) == 0 {
		m.mu.Unlock()
		return nil, fmt.Errorf("mock client: no responses configured")
	}
	idx := m.calls
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	m.calls++
	resp := m.Responses[idx]
	m.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("mock client: nil result for call %d", idx)
	}
	result := *resp.Result
	result.RequestID = req.RequestID
	return &result, nil
}

// Calls returns how many times Chat has been invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ LLMClient = (*MockClient)(nil)
