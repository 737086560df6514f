package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

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

// attemptContext is everything the per-provider attempt glue needs to
// build one domain.AttemptResult, grounded on the original's
// RunnerExecution._run_single: acquire the rate limiter, start the shadow
// call, invoke the primary provider (with its own retry loop), price the
// result, evaluate budgets, validate against the optional schema, and fold
// the shadow result back in before emitting metrics events.
type attemptContext struct {
	runID      string
	mode       domain.Mode
	prompt     domain.PromptSpec
	invoker    *invoker.Invoker
	validator  *schema.Validator
	budgets    *budget.Manager
	bucket     *ratelimit.Bucket
	shadowCfg  *domain.ProviderConfig
	shadowProv spi.Provider
	clk        clock.Clock
	log        metrics.Logger
}

// buildAttempt returns an executor.AttemptFunc bound to one provider
// roster entry, closing over its resolved spi.Provider and ProviderConfig.
func (a *attemptContext) buildAttempt(providers []spi.Provider, cfgs []domain.ProviderConfig) executor.AttemptFunc {
	return func(ctx context.Context, index int, providerName string) domain.AttemptResult {
		return a.runOne(ctx, index, providers[index], cfgs[index])
	}
}

// buildCancelled returns an executor.CancelledFunc for ParallelAny's
// never-scheduled workers, grounded on the original's
// _build_cancelled_result: cost/latency are zero because the provider was
// never invoked.
func (a *attemptContext) buildCancelled() executor.CancelledFunc {
	return func(index int, providerName string) domain.AttemptResult {
		m := a.baseMetrics(providerName, 0)
		m.Status = domain.StatusSkip
		m.FailureKind = domain.FailureCancelled
		m.ErrorMessage = "parallel_any cancelled after winner"
		m.Outcome = domain.OutcomeSkip
		m.Attempts = 0
		result := domain.AttemptResult{Metrics: m, StopReason: "cancelled"}
		a.log.Emit(metrics.RunMetricEvent(*m))
		return result
	}
}

func (a *attemptContext) baseMetrics(providerName string, attempts int) *domain.RunMetrics {
	return &domain.RunMetrics{
		Timestamp: a.clk.Now(),
		RunID:     a.runID,
		Provider:  providerName,
		Mode:      a.mode,
		PromptID:  a.prompt.ID,
		Attempts:  attempts,
	}
}

func (a *attemptContext) runOne(ctx context.Context, index int, provider spi.Provider, cfg domain.ProviderConfig) domain.AttemptResult {
	req := domain.ProviderRequest{
		Model:       cfg.Model,
		Prompt:      a.prompt.Text,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Timeout:     cfg.Timeout(),
		Options:     cfg.Options,
	}

	if err := a.bucket.Acquire(ctx); err != nil {
		m := a.baseMetrics(cfg.Provider, 0)
		m.Status = domain.StatusError
		m.FailureKind = domain.FailureCancelled
		m.ErrorMessage = err.Error()
		m.Outcome = domain.OutcomeError
		m.FinalizeCostEstimate()
		a.log.Emit(metrics.RunMetricEvent(*m))
		return domain.AttemptResult{Metrics: m, Error: err, StopReason: "cancelled"}
	}

	attemptCtx := ctx
	var cancel context.CancelFunc
	if cfg.TimeoutS > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
	}

	shadowRunner := shadow.New(a.shadowProvider(cfg.Provider), a.clk, nil)
	shadowRunner.Start(ctx, cfg, req)

	onAttempt := func(attempt int, r invoker.Result) {
		call := a.baseMetrics(cfg.Provider, attempt)
		call.Model = req.Model
		call.Seed = cfg.Seed
		call.Temperature = cfg.Temperature
		call.TopP = cfg.TopP
		call.MaxTokens = cfg.MaxTokens
		call.InputTokens = r.Response.TokenUsage.Prompt
		call.OutputTokens = r.Response.TokenUsage.Completion
		call.LatencyMS = r.LatencyMS
		call.Status = r.Status
		call.FailureKind = r.FailureKind
		call.ErrorMessage = r.ErrorMessage
		call.ErrorType = r.ErrorType
		call.Retries = r.Retries
		a.log.Emit(metrics.ProviderCallEvent(attempt, *call))
	}
	invResult := a.invoker.Invoke(attemptCtx, provider, cfg, req, onAttempt)

	cost := budget.Cost(cfg.Pricing, invResult.Response.TokenUsage)
	status := invResult.Status
	failureKind := invResult.FailureKind
	errMsg := invResult.ErrorMessage

	if status == domain.StatusOK {
		if msg, ok := a.validator.Validate(invResult.Response.Text); !ok {
			status = domain.StatusError
			failureKind = domain.FailureSchemaViolation
			errMsg = msg
		}
	}

	snapshot, stopReason, status, failureKind, errMsg := a.budgets.Evaluate(cfg.Provider, cost, status, failureKind, errMsg)

	m := a.baseMetrics(cfg.Provider, invResult.Attempts)
	m.Model = req.Model
	m.Seed = cfg.Seed
	m.Temperature = cfg.Temperature
	m.TopP = cfg.TopP
	m.MaxTokens = cfg.MaxTokens
	m.InputTokens = invResult.Response.TokenUsage.Prompt
	m.OutputTokens = invResult.Response.TokenUsage.Completion
	m.LatencyMS = invResult.LatencyMS
	m.CostUSD = cost
	m.Status = status
	m.FailureKind = failureKind
	m.ErrorMessage = errMsg
	m.ErrorType = invResult.ErrorType
	m.Retries = invResult.Retries
	m.Budget = snapshot
	m.FinalizeCostEstimate()

	if status == domain.StatusOK {
		text := invResult.Response.Text
		hash := hashText(text)
		m.OutputText = &text
		m.OutputHash = &hash
		m.Outcome = domain.OutcomeSuccess
	} else if status == domain.StatusSkip {
		m.Outcome = domain.OutcomeSkip
	} else {
		m.Outcome = domain.OutcomeError
	}

	if shadowResult := shadowRunner.Finalize(); shadowResult != nil {
		foldShadow(m, shadowResult)
	}

	a.log.Emit(metrics.RunMetricEvent(*m))

	result := domain.AttemptResult{
		Metrics:             m,
		RawOutput:           invResult.Response.Text,
		StopReason:          stopReason,
		Error:               invResult.Err,
		BackoffNextProvider: invResult.BackoffNextProvider,
	}
	return result
}

// shadowProvider returns the configured shadow provider unless providerName
// is itself the shadow provider (shadowing yourself is a no-op, matching
// the original's guard against a provider shadowing its own call).
func (a *attemptContext) shadowProvider(providerName string) spi.Provider {
	if a.shadowProv == nil || a.shadowCfg == nil || a.shadowCfg.Provider == providerName {
		return nil
	}
	return a.shadowProv
}

func foldShadow(m *domain.RunMetrics, shadowResult *shadow.Result) {
	if shadowResult.ProviderID == "" {
		return
	}
	id := shadowResult.ProviderID
	latency := shadowResult.LatencyMS
	status := shadowResult.Status
	m.ShadowProviderID = &id
	m.ShadowLatencyMS = &latency
	m.ShadowStatus = &status
	if shadowResult.Status == "ok" {
		ok := "success"
		m.ShadowOutcome = &ok
	} else {
		errOutcome := "error"
		m.ShadowOutcome = &errOutcome
		if shadowResult.ErrorMessage != "" {
			msg := shadowResult.ErrorMessage
			m.ShadowErrorMessage = &msg
		}
	}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
