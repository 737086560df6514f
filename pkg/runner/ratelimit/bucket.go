// Package ratelimit implements the runner's process-wide Token Bucket
// (spec.md §4.7), shared across a run and acquired once per provider
// attempt. The runner acquires before handing the attempt to the invoker;
// retries inside the invoker's retry loop do not acquire another token.
//
// Grounded on golang.org/x/time/rate, the same rate-limiting library used by
// the retrieval pack's LLM router
// (other_examples/...QuantumLayer-dev-quantumlayer-platform__packages-llm-router-router.go.go)
// and vendored transitively by aws-karpenter-provider-aws — the idiomatic Go
// answer to "process-wide, cooperatively-blocking rate limiter" rather than a
// hand-rolled ticker loop.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Bucket wraps a rate.Limiter configured so that capacity == rpm and the
// refill rate is capacity/60 per second, per spec.md §4.7.
type Bucket struct {
	limiter *rate.Limiter
	enabled bool
}

// NewBucket creates a Token Bucket with the given requests-per-minute
// capacity. rpm<=0 disables rate limiting entirely: Acquire becomes a no-op,
// per spec.md §4.7 and the "rpm=0 disables rate limiting" boundary behavior
// in spec.md §8.
func NewBucket(rpm int) *Bucket {
	if rpm <= 0 {
		return &Bucket{enabled: false}
	}
	refillPerSecond := float64(rpm) / 60.0
	burst := rpm
	if burst < 1 {
		burst = 1
	}
	return &Bucket{
		limiter: rate.NewLimiter(rate.Limit(refillPerSecond), burst),
		enabled: true,
	}
}

// Acquire blocks cooperatively until a token is available, or until ctx is
// cancelled. It is a no-op when the bucket was constructed with rpm<=0.
func (b *Bucket) Acquire(ctx context.Context) error {
	if !b.enabled {
		return nil
	}
	return b.limiter.Wait(ctx)
}

// Enabled reports whether this bucket actually enforces a rate limit.
func (b *Bucket) Enabled() bool { return b.enabled }
