package aggregation

import (
	"context"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// MaxScoreStrategy picks the candidate with the highest Score, falling back
// to tiebreaker when multiple candidates share the top score (including
// the common case of all candidates being unscored, i.e. score 0),
// grounded on the original's MaxScoreStrategy.
type MaxScoreStrategy struct{}

// NewMaxScoreStrategy builds a MaxScoreStrategy.
func NewMaxScoreStrategy() *MaxScoreStrategy { return &MaxScoreStrategy{} }

func (*MaxScoreStrategy) Name() string { return "max_score" }

func (s *MaxScoreStrategy) Aggregate(_ context.Context, candidates []domain.AggregationCandidate, tiebreaker TieBreaker) (domain.AggregationResult, error) {
	top := scoreOrZero(candidates[0])
	for _, c := range candidates[1:] {
		if v := scoreOrZero(c); v > top {
			top = v
		}
	}

	var tied []domain.AggregationCandidate
	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		v := scoreOrZero(c)
		scores[c.Provider] = v
		if v == top {
			tied = append(tied, c)
		}
	}

	result := domain.AggregationResult{
		Candidates: candidates,
		Strategy:   s.Name(),
		Metadata:   map[string]interface{}{"scores": scores},
	}
	result.Chosen = pickWithinBucket(tied, tiebreaker, &result)
	return result, nil
}

// MaxScoreTieBreaker breaks max-score ties by re-comparing Score (the
// group only reaches a tiebreaker when scores are otherwise equal under
// MaxScoreStrategy, but other strategies may hand it an unscored group, so
// it falls back to lowest candidate index), grounded on the original's
// MaxScoreTieBreaker.
type MaxScoreTieBreaker struct{}

func (MaxScoreTieBreaker) Name() string { return "max_score" }

func (MaxScoreTieBreaker) Break(candidates []domain.AggregationCandidate) domain.AggregationCandidate {
	best := candidates[0]
	bestScore := scoreOrZero(best)
	for _, c := range candidates[1:] {
		if s := scoreOrZero(c); s > bestScore || (s == bestScore && c.Index < best.Index) {
			best, bestScore = c, s
		}
	}
	return best
}

func scoreOrZero(c domain.AggregationCandidate) float64 {
	if c.Score != nil {
		return *c.Score
	}
	return 0
}
