package executor

import (
	"context"
	"sync"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// cancelMessage mirrors the original _ParallelCoordinatorBase.CANCEL_MESSAGE.
const cancelMessage = "parallel_any cancelled after winner"

// RunParallelAny races every provider concurrently, bounded by
// maxConcurrency, and stops racing once the first ok result arrives,
// grounded on the original's _ParallelAnyCoordinator
// (parallel/coordinators/any.py + base.py). The original abandons
// in-flight threads once a winner is picked and runs a separate finalize
// pass to synthesize cancelled results for threads it never joined; here
// every goroutine is always waited on (wg.Wait below), so the same
// synthesis happens inline as each goroutine observes cancellation —
// either before starting its attempt (never scheduled: use cancelled) or
// after finishing late (already ran: demoted to skip).
func RunParallelAny(ctx context.Context, providers []string, maxConcurrency int, attempt AttemptFunc, cancelled CancelledFunc) ([]domain.AttemptResult, string, error) {
	n := len(providers)
	results := make([]domain.AttemptResult, n)
	if n == 0 {
		return results, "", nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, NormalizeConcurrency(n, maxConcurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var wonAlready bool
	var stopReason string
	failures := make([]domain.FailureSummary, 0, n)

	for i, provider := range providers {
		wg.Add(1)
		go func(i int, provider string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			alreadyWon := wonAlready
			mu.Unlock()
			if alreadyWon {
				// Never scheduled: mirrors base.py's _mark_cancelled building
				// a synthetic result via _build_cancelled_result because
				// self._results[index] is still None.
				mu.Lock()
				results[i] = cancelled(i, provider)
				mu.Unlock()
				return
			}

			result := attempt(workerCtx, i, provider)

			mu.Lock()
			defer mu.Unlock()

			ok := result.Metrics != nil && result.Metrics.Status == domain.StatusOK
			if !ok {
				results[i] = result
				failures = append(failures, buildFailureSummary(i, provider, result))
				if stopReason == "" && result.StopReason != "" {
					stopReason = result.StopReason
				}
				return
			}

			if wonAlready {
				// Late success after a winner was already committed: mirrors
				// _mark_cancelled mutating an already-populated result to a
				// non-winner skip rather than discarding it.
				demoteToCancelled(result.Metrics)
				results[i] = result
				return
			}

			wonAlready = true
			cancel()
			results[i] = result
			if stopReason == "" && result.StopReason != "" {
				stopReason = result.StopReason
			}
		}(i, provider)
	}
	wg.Wait()

	if AnyOK(results) {
		return results, stopReason, nil
	}
	return results, stopReason, &domain.ParallelExecutionError{Failures: failures, Batch: results}
}

func demoteToCancelled(m *domain.RunMetrics) {
	if m == nil {
		return
	}
	m.Status = domain.StatusSkip
	if m.FailureKind == "" {
		m.FailureKind = domain.FailureCancelled
	}
	m.ErrorMessage = cancelMessage
	m.Outcome = domain.OutcomeSkip
}
