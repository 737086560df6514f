package aggregation

import (
	"context"
	"math"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// WeightedVoteStrategy sums each bucket's per-provider weight instead of
// counting votes, grounded on the original's WeightedVoteStrategy. With
// uniform weights it reduces to MajorityVoteStrategy (spec.md §8 property 8).
type WeightedVoteStrategy struct {
	weights map[string]float64
}

// NewWeightedVoteStrategy validates weights (non-empty, finite, >= 0) and
// builds a WeightedVoteStrategy. Per spec.md §4.5 / the original's
// _prepare_provider_weights, a candidate whose provider has no entry in
// weights is rejected by Aggregate with a *domain.ConfigError rather than
// silently defaulting to weight 1.0.
func NewWeightedVoteStrategy(weights map[string]float64) (*WeightedVoteStrategy, error) {
	if len(weights) == 0 {
		return nil, &domain.ConfigError{Message: "aggregate=weighted_vote requires provider_weights"}
	}
	for provider, w := range weights {
		if provider == "" {
			return nil, &domain.ConfigError{Message: "provider_weights keys must be non-empty strings"}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &domain.ConfigError{Message: "provider_weights[" + provider + "] must be finite"}
		}
		if w < 0 {
			return nil, &domain.ConfigError{Message: "provider_weights[" + provider + "] must be >= 0"}
		}
	}
	return &WeightedVoteStrategy{weights: weights}, nil
}

func (*WeightedVoteStrategy) Name() string { return "weighted_vote" }

func (s *WeightedVoteStrategy) Aggregate(_ context.Context, candidates []domain.AggregationCandidate, tiebreaker TieBreaker) (domain.AggregationResult, error) {
	for _, c := range candidates {
		if _, ok := s.weights[c.Provider]; !ok {
			return domain.AggregationResult{}, &domain.ConfigError{Provider: c.Provider, Message: "provider_weights has no entry for provider " + c.Provider}
		}
	}

	buckets := groupByNormalizedText(candidates)

	weightOf := func(c domain.AggregationCandidate) float64 {
		return s.weights[c.Provider]
	}

	type weighedBucket struct {
		bucket
		weight float64
	}
	weighed := make([]weighedBucket, len(buckets))
	for i, b := range buckets {
		var total float64
		for _, m := range b.members {
			total += weightOf(m)
		}
		weighed[i] = weighedBucket{bucket: b, weight: total}
	}

	best := weighed[0]
	for _, b := range weighed[1:] {
		if b.weight > best.weight {
			best = b
		}
	}

	votes := make(map[string]float64, len(weighed))
	for _, b := range weighed {
		votes[representativeText(b.members)] = b.weight
	}

	result := domain.AggregationResult{
		Candidates: candidates,
		Strategy:   s.Name(),
		Metadata: map[string]interface{}{
			"bucket_weight":  best.weight,
			"bucket_size":    len(best.members),
			"weighted_votes": votes,
		},
	}
	result.Chosen = pickWithinBucket(best.members, tiebreaker, &result)
	return result, nil
}

// representativeText reports the first member's original (non-normalized)
// text, matching the original's weighted_votes metadata keys.
func representativeText(members []domain.AggregationCandidate) string {
	if len(members) == 0 {
		return ""
	}
	return members[0].Text
}
