// Package domain defines the core data model for the runner subsystem:
// provider requests/responses, configs, attempt results, and run metrics.
package domain

import "fmt"

// FailureKind classifies why a provider attempt ended in status=error or
// status=skip. Values are the taxonomy from the runner specification.
type FailureKind string

const (
	FailureAuth             FailureKind = "auth"
	FailureConfig           FailureKind = "config"
	FailureRateLimit        FailureKind = "rate_limit"
	FailureRetryable        FailureKind = "retryable"
	FailureTimeout          FailureKind = "timeout"
	FailureSkip             FailureKind = "skip"
	FailureCancelled        FailureKind = "cancelled"
	FailureSchemaViolation  FailureKind = "schema_violation"
	FailureConsensusQuorum  FailureKind = "consensus_quorum"
	FailureGuardViolation   FailureKind = "guard_violation"
	FailureParsing          FailureKind = "parsing"
	FailureNonDeterministic FailureKind = "non_deterministic"
	FailureProviderError    FailureKind = "provider_error"
	FailureRuntime          FailureKind = "runtime"
)

// AuthError is returned by a Provider when authentication fails. It is a
// terminal error for the provider within the current run.
type AuthError struct {
	Provider string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: auth error: %s", e.Provider, e.Message)
}

// RateLimitError is returned by a Provider when it is throttled. It is
// retryable per the invoker's backoff policy.
type RateLimitError struct {
	Provider string
	Message  string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited: %s", e.Provider, e.Message)
}

// RetriableError is returned by a Provider for a transient failure that is
// safe to retry.
type RetriableError struct {
	Provider string
	Message  string
}

func (e *RetriableError) Error() string {
	return fmt.Sprintf("%s: retriable error: %s", e.Provider, e.Message)
}

// TimeoutError is returned by a Provider (or synthesized by the invoker) when
// a call does not complete within the configured timeout.
type TimeoutError struct {
	Provider string
	Message  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out: %s", e.Provider, e.Message)
}

// ProviderSkip is returned by a Provider that declines to serve the request
// (e.g. an offline-only provider when LLM_ADAPTER_OFFLINE=1 is unset, or
// vice versa). It exhausts the provider for the current attempt.
type ProviderSkip struct {
	Provider string
	Reason   string
}

func (e *ProviderSkip) Error() string {
	return fmt.Sprintf("%s: skipped: %s", e.Provider, e.Reason)
}

// ConfigError indicates the provider's configuration is invalid or
// incomplete (e.g. a missing auth environment variable).
type ConfigError struct {
	Provider string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: config error: %s", e.Provider, e.Message)
}

// CancelledError marks a worker that observed cooperative cancellation
// (ParallelAny) after a winner was already chosen.
type CancelledError struct {
	Provider string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s: cancelled", e.Provider)
}

// AllFailedError is raised by the Sequential executor when every provider in
// the batch failed.
type AllFailedError struct {
	Batch []AttemptResult
}

func (e *AllFailedError) Error() string {
	return fmt.Sprintf("all %d providers failed", len(e.Batch))
}

// FailureSummary carries one provider's terminal failure for error
// aggregation in ParallelExecutionError.
type FailureSummary struct {
	Index                int
	Provider             string
	Status               string
	FailureKind          FailureKind
	ErrorMessage         string
	BackoffNextProvider  bool
	Retries              int
	ErrorType            string
}

// ParallelExecutionError is raised by ParallelAny/ParallelAll/Consensus
// coordinators when no provider produced an ok result (ParallelAny/All) or
// when a Consensus batch failed quorum.
type ParallelExecutionError struct {
	Failures []FailureSummary
	Batch    []AttemptResult
	Cause    error
}

func (e *ParallelExecutionError) Error() string {
	return fmt.Sprintf("parallel execution failed: %d failures", len(e.Failures))
}

func (e *ParallelExecutionError) Unwrap() error {
	return e.Cause
}
