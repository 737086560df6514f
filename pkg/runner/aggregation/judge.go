package aggregation

import (
	"context"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// JudgeScorer scores one candidate's output text against the original
// prompt. Implementations typically wrap a provider configured as a judge
// model (spec.md §6 `--judge`).
type JudgeScorer interface {
	Score(ctx context.Context, promptText, candidateText string) (float64, error)
}

// JudgeStrategy delegates scoring to a JudgeScorer and then picks the
// highest-scored candidate, reusing MaxScoreStrategy's tie-break behavior,
// grounded on the original's judge aggregation path in
// aggregation_selector.py (AggregationStrategy.from_string("judge", ...)).
type JudgeStrategy struct {
	scorer JudgeScorer
	scored *MaxScoreStrategy
}

// NewJudgeStrategy builds a JudgeStrategy. A nil scorer is a configuration
// error: aggregate=judge requires a configured judge provider.
func NewJudgeStrategy(scorer JudgeScorer) (*JudgeStrategy, error) {
	if scorer == nil {
		return nil, &domain.ConfigError{Message: "aggregate=judge requires a judge provider"}
	}
	return &JudgeStrategy{scorer: scorer, scored: NewMaxScoreStrategy()}, nil
}

func (*JudgeStrategy) Name() string { return "judge" }

func (s *JudgeStrategy) Aggregate(ctx context.Context, candidates []domain.AggregationCandidate, tiebreaker TieBreaker) (domain.AggregationResult, error) {
	scoredCandidates := make([]domain.AggregationCandidate, len(candidates))
	for i, c := range candidates {
		cc := c
		if score, err := s.scorer.Score(ctx, "", c.Text); err == nil {
			cc.Score = &score
		}
		scoredCandidates[i] = cc
	}

	result, err := s.scored.Aggregate(ctx, scoredCandidates, tiebreaker)
	if err != nil {
		return domain.AggregationResult{}, err
	}
	result.Strategy = s.Name()
	return result, nil
}
