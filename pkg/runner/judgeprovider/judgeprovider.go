// Package judgeprovider adapts an spi.Provider into an aggregation.JudgeScorer
// by asking the provider to rate a candidate answer and parsing a bare
// numeric score out of its response (spec.md §6 `--judge`, §4.6 "judge
// aggregation").
package judgeprovider

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
)

// Adapter scores a candidate by prompting the wrapped provider to grade it
// from 0 to 1 and parsing the response as a float.
type Adapter struct {
	provider spi.Provider
	model    string
}

// New wraps provider as a JudgeScorer using model for the scoring prompt.
func New(provider spi.Provider, model string) *Adapter {
	return &Adapter{provider: provider, model: model}
}

// Score asks the judge provider to grade candidateText against promptText
// on a 0.0-1.0 scale and returns the parsed value.
func (a *Adapter) Score(ctx context.Context, promptText, candidateText string) (float64, error) {
	req := domain.ProviderRequest{
		Model: a.model,
		Prompt: fmt.Sprintf(
			"Rate the following answer to the prompt on a scale from 0.0 (worst) to 1.0 (best). "+
				"Respond with only the number.\n\nPrompt: %s\n\nAnswer: %s\n\nScore:",
			promptText, candidateText,
		),
		MaxTokens:   16,
		Temperature: 0,
	}
	resp, err := a.provider.Invoke(ctx, req)
	if err != nil {
		return 0, err
	}
	return parseScore(resp.Text)
}

func parseScore(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return 0, fmt.Errorf("judgeprovider: empty score response")
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("judgeprovider: unparseable score %q: %w", fields[0], err)
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return value, nil
}
