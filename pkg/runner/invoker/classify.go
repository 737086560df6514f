package invoker

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// classify maps an error returned by a Provider into the runner's failure
// taxonomy, plus whether the invoker should retry locally (spec.md §4.1,
// §7 taxonomy).
func classify(ctx context.Context, err error) (kind domain.FailureKind, retryable bool, errType string) {
	var authErr *domain.AuthError
	var rateLimitErr *domain.RateLimitError
	var retriableErr *domain.RetriableError
	var timeoutErr *domain.TimeoutError
	var cancelledErr *domain.CancelledError
	var skipErr *domain.ProviderSkip
	var configErr *domain.ConfigError

	switch {
	case errors.As(err, &authErr):
		return domain.FailureAuth, false, "AuthError"
	case errors.As(err, &rateLimitErr):
		return domain.FailureRateLimit, true, "RateLimitError"
	case errors.As(err, &retriableErr):
		return domain.FailureRetryable, true, "RetriableError"
	case errors.As(err, &timeoutErr):
		return domain.FailureTimeout, false, "TimeoutError"
	case errors.As(err, &cancelledErr):
		return domain.FailureCancelled, false, "CancelledError"
	case errors.As(err, &skipErr):
		return domain.FailureSkip, false, "ProviderSkip"
	case errors.As(err, &configErr):
		return domain.FailureConfig, false, "ConfigError"
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.FailureTimeout, false, "TimeoutError"
	case errors.Is(ctx.Err(), context.Canceled):
		return domain.FailureCancelled, false, "CancelledError"
	default:
		return domain.FailureProviderError, false, fmt.Sprintf("%T", err)
	}
}
