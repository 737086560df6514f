package executor

import (
	"context"

	"github.com/lexlapax/go-llms/pkg/runner/aggregation"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// ConsensusOutcome reports the aggregation decision alongside the raw
// batch, so the runner can emit both the per-provider run_metric records
// and the terminal ci_meta-tagged output (spec.md §4.5).
type ConsensusOutcome struct {
	Batch      []domain.AttemptResult
	StopReason string
	Result     *domain.AggregationResult
	Votes      int
	Quorum     int
}

// RunConsensus runs every provider via RunParallelAll, builds candidates
// from the ok results, aggregates them, and checks quorum, grounded on the
// original's AggregationSelector.select plus the runner's consensus glue
// in runner_execution.py. When quorum is not met, every ok result in the
// batch is downgraded to status=error/failure_kind=consensus_quorum
// (spec.md §4.5 "quorum not met demotes the whole batch") and a
// ParallelExecutionError is returned wrapping that decision.
func RunConsensus(ctx context.Context, providers []string, maxConcurrency int, attempt AttemptFunc, strategy aggregation.Strategy, tiebreaker aggregation.TieBreaker, quorum int, toCandidate func(index int, provider string, result domain.AttemptResult) (domain.AggregationCandidate, bool)) (ConsensusOutcome, error) {
	batch, stopReason, execErr := RunParallelAll(ctx, providers, maxConcurrency, attempt)
	outcome := ConsensusOutcome{Batch: batch, StopReason: stopReason, Quorum: quorum}

	var parallelErr *domain.ParallelExecutionError
	if execErr != nil {
		if asParallelErr, ok := execErr.(*domain.ParallelExecutionError); ok {
			parallelErr = asParallelErr
		} else {
			return outcome, execErr
		}
	}

	candidates := make([]domain.AggregationCandidate, 0, len(batch))
	texts := make([]string, 0, len(batch))
	for i, provider := range providers {
		cand, ok := toCandidate(i, provider, batch[i])
		if !ok {
			continue
		}
		candidates = append(candidates, cand)
		texts = append(texts, cand.Text)
	}

	if len(candidates) == 0 {
		if parallelErr != nil {
			return outcome, parallelErr
		}
		return outcome, &domain.ParallelExecutionError{Batch: batch}
	}

	result, err := strategy.Aggregate(ctx, candidates, tiebreaker)
	if err != nil {
		return outcome, err
	}
	votes := aggregation.Votes(result.Metadata, result.Chosen.Text, texts)
	outcome.Result = &result
	outcome.Votes = votes

	if aggregation.MeetsQuorum(votes, quorum) {
		return outcome, nil
	}

	failures := make([]domain.FailureSummary, 0, len(batch))
	for i := range batch {
		demoteToQuorumFailure(batch[i].Metrics)
		failures = append(failures, buildFailureSummary(i, providers[i], batch[i]))
	}
	return outcome, &domain.ParallelExecutionError{Failures: failures, Batch: batch}
}

func demoteToQuorumFailure(m *domain.RunMetrics) {
	if m == nil || m.Status != domain.StatusOK {
		return
	}
	m.Status = domain.StatusError
	m.FailureKind = domain.FailureConsensusQuorum
	m.ErrorMessage = "consensus quorum not met"
	m.Outcome = domain.OutcomeError
}
