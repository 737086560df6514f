// Package shadow implements the Shadow Runner (spec.md §4.4): a
// fire-and-forget secondary provider invocation that runs concurrently with
// the primary attempt and is joined at finalize time. Its result is folded
// into metrics but never affects the attempt's outcome. Grounded on the
// original implementation's adapter/core/execution/shadow_runner.py
// (background thread + join), rewritten as a goroutine joined via a done
// channel, with the background provider call bounded by a context timeout
// the way the teacher's provider clients are (spec.md §5 "Timeouts").
package shadow

import (
	"context"
	"log/slog"

	"github.com/lexlapax/go-llms/pkg/runner/clock"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
)

// Result is the shadow invocation's outcome, folded into the primary
// attempt's RunMetrics as shadow_* fields.
type Result struct {
	ProviderID   string
	LatencyMS    int64
	Status       string
	ErrorMessage string
}

// Runner manages one shadow invocation per primary attempt. A nil provider
// makes Start a no-op, so callers never need a nil check.
type Runner struct {
	provider spi.Provider
	clock    clock.Clock
	log      *slog.Logger

	providerID string
	done       chan Result
}

// New builds a Runner for the given shadow provider (may be nil to disable
// shadowing entirely).
func New(provider spi.Provider, clk clock.Clock, log *slog.Logger) *Runner {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{provider: provider, clock: clk, log: log}
}

// Start launches the shadow invocation in the background, if a shadow
// provider was configured. cfg and req describe the primary attempt's
// request; the shadow call is built from the same prompt and timeout.
func (r *Runner) Start(ctx context.Context, cfg domain.ProviderConfig, req domain.ProviderRequest) {
	if r.provider == nil {
		return
	}
	r.providerID = r.provider.Name()
	r.done = make(chan Result, 1)

	shadowCtx := ctx
	var cancel context.CancelFunc
	if cfg.TimeoutS > 0 {
		shadowCtx, cancel = context.WithTimeout(ctx, cfg.Timeout())
	}

	providerID := r.providerID
	provider := r.provider
	clk := r.clock
	log := r.log
	done := r.done

	go func() {
		if cancel != nil {
			defer cancel()
		}
		start := clk.Now()
		resp, err := provider.Invoke(shadowCtx, req)
		latency := clk.Now().Sub(start).Milliseconds()
		if err != nil {
			log.Warn("shadow provider failed", "provider", providerID, "error", err)
			done <- Result{ProviderID: providerID, Status: "error", ErrorMessage: err.Error(), LatencyMS: latency}
			return
		}
		if resp.LatencyMS > 0 {
			latency = resp.LatencyMS
		}
		log.Info("shadow provider completed", "provider", providerID, "latency_ms", latency)
		done <- Result{ProviderID: providerID, Status: "ok", LatencyMS: latency}
	}()
}

// Finalize blocks until the shadow invocation (if any) completes and
// returns its result. A nil return means no shadow provider was configured.
func (r *Runner) Finalize() *Result {
	if r.provider == nil {
		return nil
	}
	if r.done == nil {
		return &Result{ProviderID: r.providerID}
	}
	result := <-r.done
	if result.ProviderID == "" {
		result.ProviderID = r.providerID
	}
	return &result
}

// ProviderID returns the shadow provider's name, or "" when none configured.
func (r *Runner) ProviderID() string {
	return r.providerID
}
