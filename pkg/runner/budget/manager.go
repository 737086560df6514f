// Package budget implements the runner's per-provider and daily USD
// accounting (spec.md §4.6), grounded on the original implementation's
// adapter/core/budgets.py BudgetManager/BudgetState (calendar-day rollover,
// per-provider override lookup).
package budget

import (
	"sync"
	"time"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// Rule is one budget policy: a run-level cap, a daily cap, and whether
// breaching either should stop the run.
type Rule struct {
	RunBudgetUSD      float64
	DailyBudgetUSD    float64
	StopOnBudgetExceed bool
}

// Book holds the default rule plus per-provider overrides, loaded once from
// the budget book YAML (spec.md §6).
type Book struct {
	Default   Rule
	Overrides map[string]Rule
}

func (b Book) ruleFor(provider string) Rule {
	if r, ok := b.Overrides[provider]; ok {
		return r
	}
	return b.Default
}

type state struct {
	spentTodayUSD float64
}

// Manager evaluates and updates budget state across a run. Daily accounting
// resets on calendar-day rollover (UTC).
type Manager struct {
	book  Book
	mu    sync.Mutex
	today time.Time
	state map[string]*state
}

// NewManager creates a Manager for the given budget book.
func NewManager(book Book) *Manager {
	return &Manager{
		book:  book,
		today: truncateDay(time.Now().UTC()),
		state: map[string]*state{},
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (m *Manager) rolloverLocked() {
	today := truncateDay(time.Now().UTC())
	if !today.Equal(m.today) {
		m.state = map[string]*state{}
		m.today = today
	}
}

// Evaluate records cost for one attempt against the provider's budget and
// returns a snapshot plus a non-empty stop reason if the run must stop after
// this attempt, along with a possibly-upgraded status/failure kind/error
// message (ok -> error, guard_violation) when a cap is breached and overrun
// is disallowed, per spec.md §4.6.
func (m *Manager) Evaluate(providerName string, cost float64, status domain.Status, failureKind domain.FailureKind, errMsg string) (snapshot domain.BudgetSnapshot, stopReason string, newStatus domain.Status, newFailureKind domain.FailureKind, newErrMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverLocked()

	rule := m.book.ruleFor(providerName)
	st, ok := m.state[providerName]
	if !ok {
		st = &state{}
		m.state[providerName] = st
	}
	st.spentTodayUSD += cost

	newStatus, newFailureKind, newErrMsg = status, failureKind, errMsg

	runExceeded := rule.RunBudgetUSD > 0 && cost > rule.RunBudgetUSD
	dailyExceeded := rule.DailyBudgetUSD > 0 && st.spentTodayUSD > rule.DailyBudgetUSD

	hitStop := false
	if rule.StopOnBudgetExceed && (runExceeded || dailyExceeded) {
		hitStop = true
		if status == domain.StatusOK {
			newStatus = domain.StatusError
			newFailureKind = domain.FailureGuardViolation
			if newErrMsg == "" {
				newErrMsg = "budget exceeded"
			} else {
				newErrMsg = newErrMsg + "|budget exceeded"
			}
		}
	}

	if hitStop && runExceeded {
		stopReason = "run_budget_exceeded"
	} else if hitStop && dailyExceeded {
		stopReason = "daily_budget_exceeded"
	}

	snapshot = domain.BudgetSnapshot{
		RunBudgetUSD: rule.RunBudgetUSD,
		HitStop:      hitStop,
	}
	return
}

// SpentToday returns the amount spent today for a provider (0 if none yet).
func (m *Manager) SpentToday(providerName string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolloverLocked()
	st, ok := m.state[providerName]
	if !ok {
		return 0
	}
	return st.spentTodayUSD
}

// Cost computes the USD cost of one attempt from token usage and pricing.
func Cost(pricing domain.PricingConfig, usage domain.TokenUsage) float64 {
	cost := 0.0
	if pricing.PromptUSD > 0 {
		cost += float64(usage.Prompt) * pricing.PromptUSD
	} else if pricing.InputPerMillion > 0 {
		cost += float64(usage.Prompt) / 1_000_000 * pricing.InputPerMillion
	}
	if pricing.CompletionUSD > 0 {
		cost += float64(usage.Completion) * pricing.CompletionUSD
	} else if pricing.OutputPerMillion > 0 {
		cost += float64(usage.Completion) / 1_000_000 * pricing.OutputPerMillion
	}
	return cost
}
