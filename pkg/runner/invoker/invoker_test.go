package invoker

import (
	"context"
	"testing"
	"time"

	"github.com/lexlapax/go-llms/pkg/runner/clock"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	responses []domain.ProviderResponse
	errs      []error
	calls     int
}

func (p *stubProvider) Name() string                        { return p.name }
func (p *stubProvider) Capabilities() map[string]struct{}    { return nil }
func (p *stubProvider) Invoke(ctx context.Context, req domain.ProviderRequest) (domain.ProviderResponse, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return domain.ProviderResponse{}, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return p.responses[len(p.responses)-1], nil
}

func TestInvokeSucceedsOnFirstAttempt(t *testing.T) {
	p := &stubProvider{responses: []domain.ProviderResponse{{Text: "A"}}}
	inv := New(clock.NewFake(time.Now()), domain.BackoffPolicy{})
	cfg := domain.ProviderConfig{Retries: domain.RetryPolicy{Max: 2}}

	result := inv.Invoke(context.Background(), p, cfg, domain.ProviderRequest{}, nil)

	assert.Equal(t, domain.StatusOK, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 0, result.Retries)
	assert.Equal(t, "A", result.Response.Text)
}

func TestInvokeRetriesRateLimitThenSucceeds(t *testing.T) {
	p := &stubProvider{
		errs: []error{
			&domain.RateLimitError{Provider: "p1", Message: "slow down"},
			&domain.RateLimitError{Provider: "p1", Message: "slow down"},
		},
		responses: []domain.ProviderResponse{{}, {}, {Text: "recovered"}},
	}
	fake := clock.NewFake(time.Now())
	inv := New(fake, domain.BackoffPolicy{})
	cfg := domain.ProviderConfig{Retries: domain.RetryPolicy{Max: 2, BackoffS: 0.05}}

	result := inv.Invoke(context.Background(), p, cfg, domain.ProviderRequest{}, nil)

	require.Equal(t, domain.StatusOK, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 2, result.Retries)
	assert.Equal(t, "recovered", result.Response.Text)
	assert.Len(t, fake.Sleeps(), 2)
}

func TestInvokeAdvancesAfterRetriesExhausted(t *testing.T) {
	p := &stubProvider{
		errs: []error{
			&domain.RateLimitError{Provider: "p1", Message: "slow down"},
			&domain.RateLimitError{Provider: "p1", Message: "slow down"},
		},
		responses: []domain.ProviderResponse{{}, {}},
	}
	inv := New(clock.NewFake(time.Now()), domain.BackoffPolicy{RetryableNextProvider: true})
	cfg := domain.ProviderConfig{Retries: domain.RetryPolicy{Max: 1, BackoffS: 0.1}}

	result := inv.Invoke(context.Background(), p, cfg, domain.ProviderRequest{}, nil)

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, domain.FailureRateLimit, result.FailureKind)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 1, result.Retries)
	assert.True(t, result.BackoffNextProvider)
}

func TestInvokeAuthErrorNeverRetries(t *testing.T) {
	p := &stubProvider{errs: []error{&domain.AuthError{Provider: "p1", Message: "bad key"}}}
	inv := New(clock.NewFake(time.Now()), domain.BackoffPolicy{})
	cfg := domain.ProviderConfig{Retries: domain.RetryPolicy{Max: 5}}

	result := inv.Invoke(context.Background(), p, cfg, domain.ProviderRequest{}, nil)

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, domain.FailureAuth, result.FailureKind)
	assert.Equal(t, 1, result.Attempts)
	assert.True(t, result.BackoffNextProvider)
}

func TestInvokeProviderSkipClassifiesAsSkip(t *testing.T) {
	p := &stubProvider{errs: []error{&domain.ProviderSkip{Provider: "p1", Reason: "offline only"}}}
	inv := New(clock.NewFake(time.Now()), domain.BackoffPolicy{})
	cfg := domain.ProviderConfig{}

	result := inv.Invoke(context.Background(), p, cfg, domain.ProviderRequest{}, nil)

	assert.Equal(t, domain.StatusSkip, result.Status)
	assert.Equal(t, domain.FailureSkip, result.FailureKind)
}
