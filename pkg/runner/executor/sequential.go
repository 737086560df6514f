package executor

import (
	"context"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// RunSequential runs providers one at a time in order, grounded on the
// original's SequentialAttemptExecutor.run. It never stops early: every
// configured provider gets an attempt, because spec.md §5's per-provider
// stop semantics (auth/config/skip terminal, timeout/retryable governed by
// BackoffPolicy) are decided by the invoker per attempt, not by the
// executor. The first non-empty StopReason across the batch is returned;
// AllFailedError is the caller's responsibility once it sees every result
// failed (mirrors _run_batch raising AllFailedError after the loop, not
// inside it).
func RunSequential(ctx context.Context, providers []string, attempt AttemptFunc) (batch []domain.AttemptResult, stopReason string) {
	batch = make([]domain.AttemptResult, 0, len(providers))
	for i, provider := range providers {
		result := attempt(ctx, i, provider)
		batch = append(batch, result)
		if stopReason == "" && result.StopReason != "" {
			stopReason = result.StopReason
		}
	}
	return batch, stopReason
}

// AnyOK reports whether at least one result in the batch succeeded.
func AnyOK(batch []domain.AttemptResult) bool {
	for _, r := range batch {
		if r.Metrics != nil && r.Metrics.Status == domain.StatusOK {
			return true
		}
	}
	return false
}
