package providers

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistersAllFourProviders(t *testing.T) {
	names := spi.Names()
	for _, want := range []string{"openai", "anthropic", "gemini", "mock"} {
		assert.Contains(t, names, want)
	}
}

func TestMockProviderNeedsNoAPIKey(t *testing.T) {
	p, err := spi.New("mock", domain.ProviderConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestOpenAIProviderRequiresAPIKey(t *testing.T) {
	os.Unsetenv("OPENAI_API_KEY")
	_, err := spi.New("openai", domain.ProviderConfig{Provider: "openai", Model: "gpt-4o"})
	require.Error(t, err)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestOpenAIProviderBuildsWithEnvAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	p, err := spi.New("openai", domain.ProviderConfig{Provider: "openai", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestOpenAIProviderHonorsCustomAuthEnv(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "sk-custom")
	p, err := spi.New("openai", domain.ProviderConfig{Provider: "openai", Model: "gpt-4o", AuthEnv: "CUSTOM_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestAnthropicProviderRequiresAPIKey(t *testing.T) {
	os.Unsetenv("ANTHROPIC_API_KEY")
	_, err := spi.New("anthropic", domain.ProviderConfig{Provider: "anthropic", Model: "claude"})
	require.Error(t, err)
}

func TestGeminiProviderRequiresAPIKey(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")
	_, err := spi.New("gemini", domain.ProviderConfig{Provider: "gemini", Model: "gemini-pro"})
	require.Error(t, err)
}

func TestUpperAsciiLowercase(t *testing.T) {
	assert.Equal(t, "OPENAI", upper("openai"))
	assert.Equal(t, "ANTHROPIC", upper("anthropic"))
	assert.Equal(t, "", upper(""))
}

func TestEstimateTokensEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
}

func TestEstimateTokensShortTextIsAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, estimateTokens("hi"))
}

func TestEstimateTokensRoughlyFourCharsPerToken(t *testing.T) {
	assert.Equal(t, 4, estimateTokens("this text is sixteen char"[:16]))
}

func TestTranslateErrorMapsDeadlineExceededToTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	err := translateError("openai", ctx, errors.New("boom"))
	var timeoutErr *domain.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestTranslateErrorMapsCancelledToCancelledNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := translateError("openai", ctx, errors.New("boom"))
	var cancelledErr *domain.CancelledError
	require.ErrorAs(t, err, &cancelledErr)
	var timeoutErr *domain.TimeoutError
	require.NotErrorAs(t, err, &timeoutErr)
}

func TestTranslateErrorDefaultsToRetriable(t *testing.T) {
	err := translateError("openai", context.Background(), errors.New("some transient failure"))
	var retriableErr *domain.RetriableError
	require.ErrorAs(t, err, &retriableErr)
}

func TestToLLMMessagesFallsBackToPromptWhenNoMessages(t *testing.T) {
	req := domain.ProviderRequest{Prompt: "hello"}
	msgs := toLLMMessages(req)
	require.Len(t, msgs, 1)
}

func TestToLLMMessagesUsesProvidedMessages(t *testing.T) {
	req := domain.ProviderRequest{Messages: []domain.Message{
		{Role: domain.RoleSystem, Content: "be terse"},
		{Role: domain.RoleUser, Content: "hello"},
	}}
	msgs := toLLMMessages(req)
	require.Len(t, msgs, 2)
}

func TestToLLMOptionsIncludesMaxTokensWhenSet(t *testing.T) {
	opts := toLLMOptions(domain.ProviderRequest{Temperature: 0.5, MaxTokens: 128})
	assert.GreaterOrEqual(t, len(opts), 2)
}

func TestToLLMOptionsOmitsMaxTokensWhenUnset(t *testing.T) {
	opts := toLLMOptions(domain.ProviderRequest{Temperature: 0.5})
	assert.Len(t, opts, 1)
}
