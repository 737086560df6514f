// Package executor implements the Attempt Executors (spec.md §4.3, §5):
// Sequential and Parallel (any/all) coordinators that orchestrate one
// worker per provider per attempt. Grounded on the original
// implementation's adapter/core/runner_execution_attempts.py
// (SequentialAttemptExecutor/ParallelAttemptExecutor) and
// parallel/coordinators/{any,all,base}.py, rewritten around goroutines and
// a shared cancellation context instead of threads and a CancelledError
// exception (spec.md §9 "coroutine/async-await mixing").
package executor

import (
	"context"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// AttemptFunc invokes one provider for one attempt and returns its fully
// assembled result (metrics, raw output, stop reason). Building this
// result is the runner's job (invoker + shadow + budget + schema), not the
// executor's: the executor only orchestrates when and how many of these
// run concurrently.
type AttemptFunc func(ctx context.Context, index int, provider string) domain.AttemptResult

// CancelledFunc synthesizes a skip/cancelled AttemptResult for a provider
// that the executor decided never to invoke (spec.md §5 "Never-scheduled
// workers are synthetically marked cancelled").
type CancelledFunc func(index int, provider string) domain.AttemptResult

// NormalizeConcurrency clamps a requested concurrency to [1, total],
// grounded on the original's normalize_concurrency callback. A
// non-positive or larger-than-total max means "unbounded" (i.e. total).
func NormalizeConcurrency(total, max int) int {
	if total <= 0 {
		return 0
	}
	if max <= 0 || max > total {
		return total
	}
	return max
}

func buildFailureSummary(index int, provider string, result domain.AttemptResult) domain.FailureSummary {
	var errType string
	status := domain.StatusError
	var kind domain.FailureKind
	var msg string
	var retries int
	var backoff bool
	if result.Metrics != nil {
		status = result.Metrics.Status
		kind = result.Metrics.FailureKind
		msg = result.Metrics.ErrorMessage
		retries = result.Metrics.Retries
		errType = result.Metrics.ErrorType
	}
	backoff = result.BackoffNextProvider
	return domain.FailureSummary{
		Index:               index,
		Provider:            provider,
		Status:              string(status),
		FailureKind:         kind,
		ErrorMessage:        msg,
		BackoffNextProvider: backoff,
		Retries:             retries,
		ErrorType:           errType,
	}
}
