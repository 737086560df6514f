// Package providers registers the runner's spi.Provider factories over the
// teacher's existing pkg/llm/provider backends (OpenAI, Anthropic, Gemini,
// Mock), so the runner's config-driven provider roster (spec.md §6 "provider:
// openai|anthropic|gemini|mock") dispatches to real HTTP-backed adapters
// instead of a second implementation of the same wire protocols.
package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	llmDomain "github.com/lexlapax/go-llms/pkg/llm/domain"
	"github.com/lexlapax/go-llms/pkg/llm/provider"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
)

func init() {
	spi.Register("openai", func(cfg domain.ProviderConfig) (spi.Provider, error) {
		apiKey, err := requireEnv(cfg)
		if err != nil {
			return nil, err
		}
		opts := []provider.OpenAIOption{}
		if endpoint, ok := cfg.Options["base_url"].(string); ok && endpoint != "" {
			opts = append(opts, provider.WithBaseURL(endpoint))
		} else if cfg.Endpoint != "" {
			opts = append(opts, provider.WithBaseURL(cfg.Endpoint))
		}
		return &messageProvider{name: "openai", inner: provider.NewOpenAIProvider(apiKey, cfg.Model, opts...)}, nil
	})

	spi.Register("anthropic", func(cfg domain.ProviderConfig) (spi.Provider, error) {
		apiKey, err := requireEnv(cfg)
		if err != nil {
			return nil, err
		}
		opts := []provider.AnthropicOption{}
		if endpoint, ok := cfg.Options["base_url"].(string); ok && endpoint != "" {
			opts = append(opts, provider.WithAnthropicBaseURL(endpoint))
		} else if cfg.Endpoint != "" {
			opts = append(opts, provider.WithAnthropicBaseURL(cfg.Endpoint))
		}
		return &messageProvider{name: "anthropic", inner: provider.NewAnthropicProvider(apiKey, cfg.Model, opts...)}, nil
	})

	spi.Register("gemini", func(cfg domain.ProviderConfig) (spi.Provider, error) {
		apiKey, err := requireEnv(cfg)
		if err != nil {
			return nil, err
		}
		return &messageProvider{name: "gemini", inner: provider.NewGeminiProvider(apiKey, cfg.Model)}, nil
	})

	spi.Register("mock", func(cfg domain.ProviderConfig) (spi.Provider, error) {
		return &messageProvider{name: "mock", inner: provider.NewMockProvider()}, nil
	})
}

func requireEnv(cfg domain.ProviderConfig) (string, error) {
	envVar := cfg.AuthEnv
	if envVar == "" {
		envVar = fmt.Sprintf("%s_API_KEY", upper(cfg.Provider))
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return "", &domain.ConfigError{Provider: cfg.Provider, Message: fmt.Sprintf("missing API key: set %s", envVar)}
	}
	return apiKey, nil
}

func upper(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - ('a' - 'A')
		}
	}
	return string(out)
}

// messageProvider adapts a pkg/llm/domain.Provider (GenerateMessage-style)
// into the runner's narrower spi.Provider contract, translating
// runner-level request/response shapes and error taxonomy both ways.
type messageProvider struct {
	name  string
	inner llmDomain.Provider
}

func (m *messageProvider) Name() string { return m.name }

func (m *messageProvider) Capabilities() map[string]struct{} {
	return map[string]struct{}{"text": {}}
}

func (m *messageProvider) Invoke(ctx context.Context, req domain.ProviderRequest) (domain.ProviderResponse, error) {
	messages := toLLMMessages(req)
	opts := toLLMOptions(req)

	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := m.inner.GenerateMessage(callCtx, messages, opts...)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return domain.ProviderResponse{}, translateError(m.name, callCtx, err)
	}

	text := resp.Content
	return domain.ProviderResponse{
		Text:      text,
		LatencyMS: latency,
		TokenUsage: domain.TokenUsage{
			Prompt:     estimateTokens(req.Prompt),
			Completion: estimateTokens(text),
			Total:      estimateTokens(req.Prompt) + estimateTokens(text),
		},
		Model:        req.Model,
		FinishReason: "stop",
	}, nil
}

func toLLMMessages(req domain.ProviderRequest) []llmDomain.Message {
	if len(req.Messages) > 0 {
		out := make([]llmDomain.Message, 0, len(req.Messages))
		for _, msg := range req.Messages {
			out = append(out, llmDomain.NewTextMessage(llmDomain.Role(msg.Role), msg.Content))
		}
		return out
	}
	return []llmDomain.Message{llmDomain.NewTextMessage(llmDomain.RoleUser, req.Prompt)}
}

func toLLMOptions(req domain.ProviderRequest) []llmDomain.Option {
	opts := []llmDomain.Option{llmDomain.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llmDomain.WithMaxTokens(req.MaxTokens))
	}
	if req.TopP > 0 {
		opts = append(opts, llmDomain.WithTopP(req.TopP))
	}
	if len(req.Stop) > 0 {
		opts = append(opts, llmDomain.WithStopSequences(req.Stop))
	}
	return opts
}

// estimateTokens approximates token count at 4 characters per token
// (spec.md's test doubles use the same heuristic); real usage counts are
// unavailable from the teacher's Response type, which returns plain text.
func estimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		return 1
	}
	return n
}

// translateError classifies a failed Invoke call. Cooperative cancellation
// (context.Canceled, e.g. a ParallelAny loser after a winner is chosen) is
// distinct from a deadline expiring (context.DeadlineExceeded): only the
// latter is a timeout (spec.md §4.3.3, §5, §8 invariant 6).
func translateError(providerName string, ctx context.Context, err error) error {
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return &domain.CancelledError{Provider: providerName}
		}
		return &domain.TimeoutError{Provider: providerName, Message: err.Error()}
	}
	switch {
	case llmDomain.IsAuthenticationError(err):
		return &domain.AuthError{Provider: providerName, Message: err.Error()}
	case llmDomain.IsRateLimitError(err):
		return &domain.RateLimitError{Provider: providerName, Message: err.Error()}
	default:
		return &domain.RetriableError{Provider: providerName, Message: err.Error()}
	}
}
