package spi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// MockProvider is a scriptable Provider used by tests and examples — the
// runner equivalent of the teacher's pkg/llm/provider.MockProvider, adapted
// to return a queued sequence of responses/errors instead of a single
// canned string, so retry and failover scenarios can be driven deterministically.
type MockProvider struct {
	name         string
	capabilities map[string]struct{}

	mu       sync.Mutex
	queue    []mockStep
	invokes  int
	latency  time.Duration
}

type mockStep struct {
	resp domain.ProviderResponse
	err  error
}

// NewMockProvider creates a mock provider with the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name, capabilities: map[string]struct{}{}}
}

// WithLatency makes every Invoke call sleep for d before returning, useful
// for exercising ParallelAny's "fastest wins" race.
func (m *MockProvider) WithLatency(d time.Duration) *MockProvider {
	m.latency = d
	return m
}

// WithCapability declares a capability tag.
func (m *MockProvider) WithCapability(cap string) *MockProvider {
	m.capabilities[cap] = struct{}{}
	return m
}

// QueueText enqueues a successful text response for the next Invoke call.
func (m *MockProvider) QueueText(text string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockStep{resp: domain.ProviderResponse{
		Text: text,
		TokenUsage: domain.TokenUsage{
			Prompt: len(text) / 4, Completion: len(text) / 4, Total: 2 * (len(text) / 4),
		},
		FinishReason: "stop",
	}})
	return m
}

// QueueError enqueues a failing response for the next Invoke call.
func (m *MockProvider) QueueError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockStep{err: err})
	return m
}

// Invokes returns how many times Invoke has been called so far.
func (m *MockProvider) Invokes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invokes
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) Capabilities() map[string]struct{} { return m.capabilities }

func (m *MockProvider) Invoke(ctx context.Context, req domain.ProviderRequest) (domain.ProviderResponse, error) {
	if m.latency > 0 {
		select {
		case <-time.After(m.latency):
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return domain.ProviderResponse{}, &domain.CancelledError{Provider: m.name}
			}
			return domain.ProviderResponse{}, &domain.TimeoutError{Provider: m.name, Message: ctx.Err().Error()}
		}
	}

	m.mu.Lock()
	m.invokes++
	var step mockStep
	if len(m.queue) == 0 {
		step = mockStep{resp: domain.ProviderResponse{Text: "mock response", FinishReason: "stop"}}
	} else {
		step = m.queue[0]
		m.queue = m.queue[1:]
	}
	m.mu.Unlock()

	if step.err != nil {
		return domain.ProviderResponse{}, step.err
	}
	step.resp.Model = req.Model
	return step.resp, nil
}
