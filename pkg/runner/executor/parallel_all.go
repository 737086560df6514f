package executor

import (
	"context"
	"sync"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// RunParallelAll runs every provider concurrently, bounded by
// maxConcurrency, and waits for all of them, grounded on the original's
// ParallelAttemptExecutor (the "all" path) in
// runner_execution_attempts.py. Unlike ParallelAny there is no
// cancellation: every provider's attempt always runs to completion.
func RunParallelAll(ctx context.Context, providers []string, maxConcurrency int, attempt AttemptFunc) ([]domain.AttemptResult, string, error) {
	n := len(providers)
	results := make([]domain.AttemptResult, n)
	if n == 0 {
		return results, "", nil
	}

	sem := make(chan struct{}, NormalizeConcurrency(n, maxConcurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var stopReason string

	for i, provider := range providers {
		wg.Add(1)
		go func(i int, provider string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := attempt(ctx, i, provider)

			mu.Lock()
			results[i] = result
			if stopReason == "" && result.StopReason != "" {
				stopReason = result.StopReason
			}
			mu.Unlock()
		}(i, provider)
	}
	wg.Wait()

	if AnyOK(results) {
		return results, stopReason, nil
	}

	failures := make([]domain.FailureSummary, 0, n)
	for i, provider := range providers {
		failures = append(failures, buildFailureSummary(i, provider, results[i]))
	}
	return results, stopReason, &domain.ParallelExecutionError{Failures: failures, Batch: results}
}
