// Package invoker implements the Provider Invoker (spec.md §4.2): one
// provider call wrapped with a local retry loop on retryable errors, error
// classification, and latency measurement. Grounded on the original
// implementation's adapter/core/runner_execution.py._run_single and
// execution/guards.py, generalized into a constructor-injected component
// with an injected Clock (spec.md §9, replacing the original's
// monkeypatched time.sleep).
package invoker

import (
	"context"
	"time"

	"github.com/lexlapax/go-llms/pkg/runner/clock"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
)

// Result is the outcome of one provider call, including every retry.
type Result struct {
	Response     domain.ProviderResponse
	Status       domain.Status
	FailureKind  domain.FailureKind
	ErrorMessage string
	ErrorType    string
	LatencyMS    int64
	Attempts     int
	Retries      int
	Err          error
	// BackoffNextProvider reports whether the Sequential executor should
	// advance to the next configured provider after this terminal failure
	// (spec.md §7 "Propagation policy").
	BackoffNextProvider bool
}

// Invoker wraps a single Provider with its retry policy.
type Invoker struct {
	clock   clock.Clock
	backoff domain.BackoffPolicy
}

// New builds an Invoker. backoff controls failover behavior across the
// retry loop; clk supplies Now/Sleep so tests run without real delays.
func New(clk clock.Clock, backoff domain.BackoffPolicy) *Invoker {
	if clk == nil {
		clk = clock.New()
	}
	return &Invoker{clock: clk, backoff: backoff}
}

// OnAttempt is invoked once per call to the underlying provider (including
// every retry), letting the caller emit a provider_call event per attempt
// (spec.md §6 "provider_call — one per provider attempt, including retries
// and cancellations") without the invoker needing to know anything about
// the event schema.
type OnAttempt func(attempt int, r Result)

// Invoke calls provider with req, retrying locally on retryable
// classifications up to cfg.Retries.Max times, sleeping cfg.Retries.BackoffS
// (or backoff.RateLimitSleepS for rate-limit failures, when set) between
// attempts. onAttempt may be nil.
func (inv *Invoker) Invoke(ctx context.Context, provider spi.Provider, cfg domain.ProviderConfig, req domain.ProviderRequest, onAttempt OnAttempt) Result {
	var (
		attempts int
		retries  int
		last     Result
	)

	for {
		attempts++
		start := inv.clock.Now()
		resp, err := provider.Invoke(ctx, req)
		latency := inv.clock.Now().Sub(start).Milliseconds()

		if err == nil {
			result := Result{
				Response:  resp,
				Status:    domain.StatusOK,
				LatencyMS: latency,
				Attempts:  attempts,
				Retries:   retries,
			}
			if onAttempt != nil {
				onAttempt(attempts, result)
			}
			return result
		}

		kind, retryable, errType := classify(ctx, err)
		last = Result{
			Response:     resp,
			Status:       statusFor(kind),
			FailureKind:  kind,
			ErrorMessage: err.Error(),
			ErrorType:    errType,
			LatencyMS:    latency,
			Attempts:     attempts,
			Retries:      retries,
			Err:          err,
		}

		if retryable && retries < cfg.Retries.Max {
			if onAttempt != nil {
				onAttempt(attempts, last)
			}
			retries++
			inv.sleepBackoff(ctx, kind, cfg)
			continue
		}

		last.Retries = retries
		last.BackoffNextProvider = inv.shouldAdvance(kind)
		if onAttempt != nil {
			onAttempt(attempts, last)
		}
		return last
	}
}

// statusFor maps a failure kind to its attempt-level status. Cancellation
// (a ParallelAny loser observing the winner's cancel signal) is a skip, not
// an error: the provider never got to run to completion, same as
// FailureSkip (spec.md §4.3.3, §5, §8 invariant 6).
func statusFor(kind domain.FailureKind) domain.Status {
	switch kind {
	case domain.FailureSkip, domain.FailureCancelled:
		return domain.StatusSkip
	default:
		return domain.StatusError
	}
}

func (inv *Invoker) sleepBackoff(ctx context.Context, kind domain.FailureKind, cfg domain.ProviderConfig) {
	seconds := cfg.Retries.BackoffS
	if kind == domain.FailureRateLimit && inv.backoff.RateLimitSleepS > 0 {
		seconds = inv.backoff.RateLimitSleepS
	}
	if seconds <= 0 {
		return
	}
	inv.clock.Sleep(ctx, time.Duration(seconds*float64(time.Second)))
}

// shouldAdvance reports whether the Sequential executor should move on to
// the next provider after this terminal failure kind.
func (inv *Invoker) shouldAdvance(kind domain.FailureKind) bool {
	switch kind {
	case domain.FailureTimeout:
		return inv.backoff.TimeoutNextProvider
	case domain.FailureRateLimit, domain.FailureRetryable:
		return inv.backoff.RetryableNextProvider
	case domain.FailureAuth, domain.FailureConfig, domain.FailureSkip:
		return true
	default:
		return true
	}
}
