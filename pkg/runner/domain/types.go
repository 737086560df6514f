package domain

import "time"

// ProviderRequest is built per attempt from the logical request and the
// provider's configuration. It is immutable once constructed.
type ProviderRequest struct {
	Model       string
	Prompt      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
	Timeout     time.Duration
	Options     map[string]interface{}
	Metadata    map[string]interface{}
}

// PromptSpec is one entry from the runner's prompt set (spec.md §4 "Prompt
// set"): a stable identifier plus the literal text sent to every provider.
type PromptSpec struct {
	ID   string
	Text string
}

// Role mirrors the teacher's pkg/llm/domain.Role for message-based requests.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a minimal chat message used when ProviderRequest.Messages is
// populated instead of a bare Prompt.
type Message struct {
	Role    Role
	Content string
}

// TokenUsage reports prompt/completion/total token counts for one attempt.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// ProviderResponse is produced by a provider invocation and owned by the
// attempt that produced it.
type ProviderResponse struct {
	Text         string
	LatencyMS    int64
	TokenUsage   TokenUsage
	Model        string
	FinishReason string
	Raw          interface{}
}

// RetryPolicy configures the Provider Invoker's retry loop for one provider.
type RetryPolicy struct {
	Max       int
	BackoffS  float64
}

// PricingConfig expresses per-token cost in USD for a provider.
type PricingConfig struct {
	PromptUSD        float64
	CompletionUSD    float64
	InputPerMillion  float64
	OutputPerMillion float64
}

// RateLimitConfig is the provider-level rate limit (requests-per-minute,
// tokens-per-minute); only RPM is enforced by the Token Bucket.
type RateLimitConfig struct {
	RPM int
	TPM int
}

// QualityGatesConfig configures determinism checks (non_deterministic
// failure kind); evaluated by callers outside the runner core.
type QualityGatesConfig struct {
	DeterminismDiffRateMax float64
	DeterminismLenStdevMax float64
}

// BackoffPolicy controls sleep durations and failover behavior across the
// invoker's retry loop. Config loading defaults both *NextProvider flags to
// true; setting either false means that failure family stops the run
// instead of advancing to the next configured provider (spec.md §7).
type BackoffPolicy struct {
	RateLimitSleepS       float64
	TimeoutNextProvider   bool
	RetryableNextProvider bool
}

// ProviderConfig is loaded once per run and read-only thereafter.
type ProviderConfig struct {
	Provider     string
	Model        string
	AuthEnv      string
	Endpoint     string
	Seed         int
	Temperature  float64
	TopP         float64
	MaxTokens    int
	TimeoutS     float64
	Retries      RetryPolicy
	Pricing      PricingConfig
	RateLimit    RateLimitConfig
	QualityGates QualityGatesConfig
	Options      map[string]interface{}
	Env          map[string]string
}

// Timeout returns the provider's configured timeout as a time.Duration.
func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutS * float64(time.Second))
}

// Mode is a runner execution-mode strategy.
type Mode string

const (
	ModeSequential  Mode = "sequential"
	ModeParallelAny Mode = "parallel_any"
	ModeParallelAll Mode = "parallel_all"
	ModeConsensus   Mode = "consensus"
)

// AggregateKind names an aggregation strategy.
type AggregateKind string

const (
	AggregateMajorityVote AggregateKind = "majority_vote"
	AggregateWeightedVote AggregateKind = "weighted_vote"
	AggregateMaxScore     AggregateKind = "max_score"
	AggregateJudge        AggregateKind = "judge"
)

// RunnerConfig is immutable for the lifetime of one run.
type RunnerConfig struct {
	Mode             Mode
	Aggregate        AggregateKind
	Quorum           int
	TieBreaker       string
	ProviderWeights  map[string]float64
	SchemaPath       string
	JudgeProvider    *ProviderConfig
	MaxConcurrency   int
	RPM              int
	Backoff          BackoffPolicy
	ShadowProvider   string
	MetricsPath      string
	AllowOverrun     bool
}

// AttemptResult is produced once per provider per attempt.
type AttemptResult struct {
	Metrics             *RunMetrics
	RawOutput           string
	StopReason          string
	Error               error
	BackoffNextProvider bool
	AggregateOutput     string
}

// BudgetSnapshot reports the per-run budget and whether it tripped a stop.
type BudgetSnapshot struct {
	RunBudgetUSD float64 `json:"run_budget_usd,omitempty"`
	HitStop      bool    `json:"hit_stop,omitempty"`
}

// EvalMetrics carries optional golden-task evaluation results.
type EvalMetrics struct {
	ExactMatch *bool    `json:"exact_match,omitempty"`
	DiffRate   *float64 `json:"diff_rate,omitempty"`
	LenTokens  *int     `json:"len_tokens,omitempty"`
}

// Outcome is the terminal disposition of a run_metric record.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkip    Outcome = "skip"
	OutcomeError   Outcome = "error"
)

// Status is the attempt-level status recorded on RunMetrics.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// RunMetrics is the terminal record emitted once per provider per attempt.
// Every field mirrors spec.md §3's RunMetrics entity.
type RunMetrics struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Mode         Mode      `json:"mode"`
	PromptID     string    `json:"prompt_id"`
	Seed         int       `json:"seed"`
	Temperature  float64   `json:"temperature"`
	TopP         float64   `json:"top_p"`
	MaxTokens    int       `json:"max_tokens"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	LatencyMS    int64     `json:"latency_ms"`
	CostUSD      float64   `json:"cost_usd"`
	Status       Status    `json:"status"`
	FailureKind  FailureKind `json:"failure_kind,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	ErrorType    string      `json:"error_type,omitempty"`

	OutputText *string `json:"output_text,omitempty"`
	OutputHash *string `json:"output_hash,omitempty"`

	Attempts  int      `json:"attempts"`
	Retries   int      `json:"retries"`
	Providers []string `json:"providers,omitempty"`

	Outcome Outcome `json:"outcome"`

	ShadowProviderID   *string `json:"shadow_provider_id,omitempty"`
	ShadowLatencyMS    *int64  `json:"shadow_latency_ms,omitempty"`
	ShadowStatus       *string `json:"shadow_status,omitempty"`
	ShadowOutcome      *string `json:"shadow_outcome,omitempty"`
	ShadowErrorMessage *string `json:"shadow_error_message,omitempty"`

	Eval   EvalMetrics    `json:"eval"`
	Budget BudgetSnapshot `json:"budget"`

	CIMeta map[string]interface{} `json:"ci_meta,omitempty"`

	// CostEstimate mirrors CostUSD unless explicitly overridden; carried
	// from the original implementation's RunMetrics.cost_estimate field.
	CostEstimate *float64 `json:"cost_estimate,omitempty"`
}

// TotalTokens returns InputTokens + OutputTokens, which must equal
// TokenUsage.Total by the runner's invariants (spec.md §3, §8 property 3).
func (m *RunMetrics) TotalTokens() int {
	return m.InputTokens + m.OutputTokens
}

// FinalizeCostEstimate sets CostEstimate to CostUSD when unset, mirroring
// the original RunMetrics.__post_init__ behavior.
func (m *RunMetrics) FinalizeCostEstimate() {
	if m.CostEstimate == nil {
		v := m.CostUSD
		m.CostEstimate = &v
	}
}
