// Package aggregation implements the Aggregation Selector and its
// strategies (spec.md §4.5): majority-vote, weighted-vote, max-score
// (judge-scored), and judge strategies, each producing a single winning
// candidate plus metadata (votes, scores, tie-break reason). Grounded on
// the original implementation's adapter/core/aggregation_selector.py and
// adapter/core/aggregation.py (AggregationStrategy.from_string dispatch,
// _CompositeTieBreaker), and on the teacher's pkg/llm/provider/consensus.go
// voting/grouping conventions.
package aggregation

import (
	"context"
	"strings"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// Strategy picks a winning candidate from a batch of ok attempts. ctx is
// only exercised by JudgeStrategy, which calls out to a judge provider;
// every other strategy ignores it.
type Strategy interface {
	// Name is the canonical strategy name recorded on AggregationResult.
	Name() string
	// Aggregate picks a winner from candidates, using tiebreaker (which may
	// be nil) to resolve ties where the strategy itself cannot decide.
	// Returns a *domain.ConfigError if candidates reference a provider the
	// strategy cannot score (e.g. weighted-vote against a provider absent
	// from its weights map).
	Aggregate(ctx context.Context, candidates []domain.AggregationCandidate, tiebreaker TieBreaker) (domain.AggregationResult, error)
}

// normalizeText mirrors the original's whitespace/case-insensitive grouping
// key for majority/weighted vote (spec.md §8 property 7): collapse runs of
// whitespace, trim, and lowercase.
func normalizeText(text string) string {
	fields := strings.Fields(text)
	return strings.ToLower(strings.Join(fields, " "))
}

// FromName resolves an aggregate kind string (with hyphen/underscore and
// common aliases) to a Strategy. An empty name selects majority_vote.
// weights is used only by weighted_vote and judge only by judge.
func FromName(name string, weights map[string]float64, judge JudgeScorer) (Strategy, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	if normalized == "" {
		normalized = "majority_vote"
	}
	switch normalized {
	case "majority_vote", "majority":
		return NewMajorityVoteStrategy(), nil
	case "weighted_vote", "weighted", "weightedvote":
		return NewWeightedVoteStrategy(weights)
	case "max_score", "maxscore":
		return NewMaxScoreStrategy(), nil
	case "judge", "llm_judge":
		return NewJudgeStrategy(judge)
	default:
		return nil, &domain.ConfigError{Message: "unknown aggregate strategy: " + name}
	}
}
