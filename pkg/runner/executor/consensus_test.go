package executor

import (
	"context"
	"testing"

	"github.com/lexlapax/go-llms/pkg/runner/aggregation"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConsensusMeetsQuorum(t *testing.T) {
	attempt := func(ctx context.Context, index int, provider string) domain.AttemptResult {
		return okResult(provider, "A")
	}
	strategy := aggregation.NewMajorityVoteStrategy()

	outcome, err := RunConsensus(context.Background(), []string{"p1", "p2"}, 0, attempt, strategy, aggregation.StableOrderTieBreaker{}, 2, consensusCandidate)

	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "A", outcome.Result.Chosen.Text)
	assert.Equal(t, 2, outcome.Votes)
	for _, r := range outcome.Batch {
		assert.Equal(t, domain.StatusOK, r.Metrics.Status)
	}
}

func TestRunConsensusDowngradesBatchWhenQuorumNotMet(t *testing.T) {
	attempt := func(ctx context.Context, index int, provider string) domain.AttemptResult {
		return okResult(provider, "A")
	}
	strategy := aggregation.NewMajorityVoteStrategy()

	outcome, err := RunConsensus(context.Background(), []string{"p1", "p2"}, 0, attempt, strategy, aggregation.StableOrderTieBreaker{}, 3, consensusCandidate)

	require.Error(t, err)
	var parallelErr *domain.ParallelExecutionError
	require.ErrorAs(t, err, &parallelErr)
	for _, r := range outcome.Batch {
		assert.Equal(t, domain.StatusError, r.Metrics.Status)
		assert.Equal(t, domain.FailureConsensusQuorum, r.Metrics.FailureKind)
	}
}

func consensusCandidate(index int, provider string, result domain.AttemptResult) (domain.AggregationCandidate, bool) {
	if result.Metrics == nil || result.Metrics.Status != domain.StatusOK {
		return domain.AggregationCandidate{}, false
	}
	return domain.AggregationCandidate{Index: index, Provider: provider, Text: result.RawOutput}, true
}
