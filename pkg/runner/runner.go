// Package runner implements the top-level Runner dispatcher (spec.md §2,
// §4): it resolves the configured execution mode, builds the shared
// per-attempt context (rate limiter, budgets, schema gate, shadow
// coordination, retry/backoff), drives the Sequential/ParallelAny/
// ParallelAll/Consensus executors, applies aggregation, and emits the
// terminal run_metric stream. Grounded on the original implementation's
// adapter/core/runner.py (Runner.run_prompt / run_batch) and
// runner_execution.py (RunnerExecution), restructured around Go's
// constructor-injected Clock/Logger rather than module-level monkeypatching
// (spec.md §9).
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexlapax/go-llms/pkg/runner/aggregation"
	"github.com/lexlapax/go-llms/pkg/runner/budget"
	"github.com/lexlapax/go-llms/pkg/runner/clock"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/executor"
	"github.com/lexlapax/go-llms/pkg/runner/invoker"
	"github.com/lexlapax/go-llms/pkg/runner/metrics"
	"github.com/lexlapax/go-llms/pkg/runner/ratelimit"
	"github.com/lexlapax/go-llms/pkg/runner/schema"
	"github.com/lexlapax/go-llms/pkg/runner/shadow"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
)

// Roster is one configured provider slot: its resolved backend plus the
// static configuration the invoker, budget manager, and pricing all read
// from (spec.md §4 "Provider roster").
type Roster struct {
	Provider spi.Provider
	Config   domain.ProviderConfig
}

// Runner is built once per process and reused across every prompt in the
// configured prompt set.
type Runner struct {
	cfg        domain.RunnerConfig
	roster     []Roster
	names      []string
	inv        *invoker.Invoker
	budgets    *budget.Manager
	validator  *schema.Validator
	bucket     *ratelimit.Bucket
	shadowProv spi.Provider
	shadowCfg  *domain.ProviderConfig
	strategy   aggregation.Strategy
	tiebreaker aggregation.TieBreaker
	log        metrics.Logger
	clk        clock.Clock
}

// New builds a Runner. judge is the optional JudgeScorer backing
// aggregate=judge; it is nil for every other aggregate kind. shadowProv is
// the optional shadow provider resolved from cfg.ShadowProvider.
func New(cfg domain.RunnerConfig, providerConfigs []domain.ProviderConfig, book budget.Book, schemaDoc *schema.Schema, log metrics.Logger, judge aggregation.JudgeScorer, clk clock.Clock) (*Runner, error) {
	if len(providerConfigs) == 0 {
		return nil, &domain.ConfigError{Message: "runner requires at least one provider"}
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = metrics.NewMemoryLogger()
	}

	roster := make([]Roster, 0, len(providerConfigs))
	names := make([]string, 0, len(providerConfigs))
	for _, pc := range providerConfigs {
		p, err := spi.New(pc.Provider, pc)
		if err != nil {
			return nil, err
		}
		roster = append(roster, Roster{Provider: p, Config: pc})
		names = append(names, pc.Provider)
	}

	var shadowProv spi.Provider
	var shadowCfg *domain.ProviderConfig
	if cfg.ShadowProvider != "" {
		for _, r := range roster {
			if r.Config.Provider == cfg.ShadowProvider {
				cfgCopy := r.Config
				shadowCfg = &cfgCopy
				shadowProv = r.Provider
				break
			}
		}
		if shadowProv == nil {
			return nil, &domain.ConfigError{Message: fmt.Sprintf("shadow_provider %q is not in the provider roster", cfg.ShadowProvider)}
		}
	}

	strategy, err := aggregation.FromName(string(cfg.Aggregate), cfg.ProviderWeights, judge)
	if err != nil {
		return nil, err
	}
	tiebreaker, ok := aggregation.ResolveTieBreaker(cfg.TieBreaker)
	if !ok {
		return nil, &domain.ConfigError{Message: fmt.Sprintf("unknown tie_breaker %q", cfg.TieBreaker)}
	}

	return &Runner{
		cfg:        cfg,
		roster:     roster,
		names:      names,
		inv:        invoker.New(clk, cfg.Backoff),
		budgets:    budget.NewManager(book),
		validator:  schema.NewValidator(schemaDoc),
		bucket:     ratelimit.NewBucket(cfg.RPM),
		shadowProv: shadowProv,
		shadowCfg:  shadowCfg,
		strategy:   strategy,
		tiebreaker: tiebreaker,
		log:        log,
		clk:        clk,
	}, nil
}

// RunResult is the outcome of running one prompt through the configured
// mode: the full per-provider batch plus, for Consensus, the aggregation
// decision.
type RunResult struct {
	RunID      string
	Batch      []domain.AttemptResult
	Aggregated *domain.AggregationResult
	Err        error
}

// Run executes one prompt through the configured execution mode
// (spec.md §4 "Runner.run_prompt").
func (r *Runner) Run(ctx context.Context, prompt domain.PromptSpec) RunResult {
	runID := uuid.NewString()
	actx := &attemptContext{
		runID:      runID,
		mode:       r.cfg.Mode,
		prompt:     prompt,
		invoker:    r.inv,
		validator:  r.validator,
		budgets:    r.budgets,
		bucket:     r.bucket,
		shadowCfg:  r.shadowCfg,
		shadowProv: r.shadowProv,
		clk:        r.clk,
		log:        r.log,
	}

	providers := make([]spi.Provider, len(r.roster))
	cfgs := make([]domain.ProviderConfig, len(r.roster))
	for i, roster := range r.roster {
		providers[i] = roster.Provider
		cfgs[i] = roster.Config
	}
	attempt := actx.buildAttempt(providers, cfgs)

	switch r.cfg.Mode {
	case domain.ModeParallelAny:
		batch, _, err := executor.RunParallelAny(ctx, r.names, r.cfg.MaxConcurrency, attempt, actx.buildCancelled())
		return RunResult{RunID: runID, Batch: batch, Err: err}

	case domain.ModeParallelAll:
		batch, _, err := executor.RunParallelAll(ctx, r.names, r.cfg.MaxConcurrency, attempt)
		return RunResult{RunID: runID, Batch: batch, Err: err}

	case domain.ModeConsensus:
		outcome, err := executor.RunConsensus(ctx, r.names, r.cfg.MaxConcurrency, attempt, r.strategy, r.tiebreaker, r.cfg.Quorum, candidateFrom)
		return RunResult{RunID: runID, Batch: outcome.Batch, Aggregated: outcome.Result, Err: err}

	default: // domain.ModeSequential
		batch, _ := executor.RunSequential(ctx, r.names, attempt)
		var err error
		if !executor.AnyOK(batch) {
			err = &domain.AllFailedError{Batch: batch}
		}
		return RunResult{RunID: runID, Batch: batch, Err: err}
	}
}

// candidateFrom converts one ok AttemptResult into an aggregation
// candidate, skipping non-ok results (spec.md §4.5 "candidates are built
// from ok attempts with non-empty output").
func candidateFrom(index int, provider string, result domain.AttemptResult) (domain.AggregationCandidate, bool) {
	if result.Metrics == nil || result.Metrics.Status != domain.StatusOK || result.RawOutput == "" {
		return domain.AggregationCandidate{}, false
	}
	return domain.AggregationCandidate{
		Index:    index,
		Provider: provider,
		Response: domain.ProviderResponse{Text: result.RawOutput, LatencyMS: result.Metrics.LatencyMS},
		Text:     result.RawOutput,
		CostUSD:  result.Metrics.CostUSD,
	}, true
}
