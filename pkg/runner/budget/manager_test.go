package budget

import (
	"testing"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateNoOverrunWhenUnderBudget(t *testing.T) {
	m := NewManager(Book{Default: Rule{RunBudgetUSD: 1.0, DailyBudgetUSD: 10.0, StopOnBudgetExceed: true}})
	snap, stopReason, status, kind, msg := m.Evaluate("p1", 0.1, domain.StatusOK, "", "")
	assert.False(t, snap.HitStop)
	assert.Empty(t, stopReason)
	assert.Equal(t, domain.StatusOK, status)
	assert.Empty(t, kind)
	assert.Empty(t, msg)
}

func TestEvaluateDowngradesOnRunBudgetExceed(t *testing.T) {
	m := NewManager(Book{Default: Rule{RunBudgetUSD: 0.05, StopOnBudgetExceed: true}})
	snap, stopReason, status, kind, msg := m.Evaluate("p1", 0.10, domain.StatusOK, "", "")
	assert.True(t, snap.HitStop)
	assert.Equal(t, "run_budget_exceeded", stopReason)
	assert.Equal(t, domain.StatusError, status)
	assert.Equal(t, domain.FailureGuardViolation, kind)
	assert.Contains(t, msg, "budget exceeded")
}

func TestEvaluateDailyRollupAcrossAttempts(t *testing.T) {
	m := NewManager(Book{Default: Rule{DailyBudgetUSD: 0.15, StopOnBudgetExceed: true}})
	_, stop1, _, _, _ := m.Evaluate("p1", 0.10, domain.StatusOK, "", "")
	assert.Empty(t, stop1)
	_, stop2, status2, _, _ := m.Evaluate("p1", 0.10, domain.StatusOK, "", "")
	assert.Equal(t, "daily_budget_exceeded", stop2)
	assert.Equal(t, domain.StatusError, status2)
	assert.InDelta(t, 0.20, m.SpentToday("p1"), 1e-9)
}

func TestEvaluateDoesNotStopWhenStopOnBudgetExceedFalse(t *testing.T) {
	m := NewManager(Book{Default: Rule{RunBudgetUSD: 0.01, StopOnBudgetExceed: false}})
	snap, stopReason, status, _, _ := m.Evaluate("p1", 1.0, domain.StatusOK, "", "")
	assert.False(t, snap.HitStop)
	assert.Empty(t, stopReason)
	assert.Equal(t, domain.StatusOK, status)
}

func TestCostFromPricing(t *testing.T) {
	cost := Cost(domain.PricingConfig{PromptUSD: 0.001, CompletionUSD: 0.002}, domain.TokenUsage{Prompt: 100, Completion: 50})
	assert.InDelta(t, 0.001*100+0.002*50, cost, 1e-9)

	cost2 := Cost(domain.PricingConfig{InputPerMillion: 3.0, OutputPerMillion: 15.0}, domain.TokenUsage{Prompt: 1_000_000, Completion: 500_000})
	assert.InDelta(t, 3.0+7.5, cost2, 1e-9)
}
