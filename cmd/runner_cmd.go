package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	runnerpkg "github.com/lexlapax/go-llms/pkg/runner"
	"github.com/lexlapax/go-llms/pkg/runner/aggregation"
	"github.com/lexlapax/go-llms/pkg/runner/config"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/judgeprovider"
	"github.com/lexlapax/go-llms/pkg/runner/metrics"
	_ "github.com/lexlapax/go-llms/pkg/runner/providers"
	"github.com/lexlapax/go-llms/pkg/runner/spi"
	"github.com/spf13/cobra"
)

// Exit codes mirror spec.md §6 "Exit codes": 0 success, 2 config error,
// 3 all providers failed, 4 schema violation, 5 budget exceeded,
// 6 consensus quorum not met, 130 interrupted.
const (
	exitOK              = 0
	exitConfigError     = 2
	exitAllFailed       = 3
	exitSchemaViolation = 4
	exitBudgetExceeded  = 5
	exitQuorumNotMet    = 6
	exitInterrupted     = 130
)

func newRunnerCmd() *cobra.Command {
	var (
		providerPaths  []string
		promptsPath    string
		repeat         int
		mode           string
		aggregate      string
		quorum         int
		tieBreaker     string
		schemaPath     string
		judgeProvider  string
		judgeModel     string
		weightsRaw     string
		maxConcurrency int
		rpm            int
		metricsPath    string
		budgetsPath    string
		allowOverrun   bool
		shadowProvider string
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "runner",
		Short: "Run a prompt set across a provider roster under a multi-provider execution strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(logLevel)})))

			if len(providerPaths) == 0 {
				return exitErrorf(exitConfigError, "at least one --providers config file is required")
			}
			if promptsPath == "" {
				return exitErrorf(exitConfigError, "--prompts is required")
			}

			providerConfigs, err := config.LoadProviders(providerPaths)
			if err != nil {
				return exitErrorf(exitConfigError, "%v", err)
			}
			book, err := config.LoadBudgetBook(budgetsPath)
			if err != nil {
				return exitErrorf(exitConfigError, "%v", err)
			}
			if allowOverrun {
				book.Default.StopOnBudgetExceed = false
				for name, rule := range book.Overrides {
					rule.StopOnBudgetExceed = false
					book.Overrides[name] = rule
				}
			}
			schemaDoc, err := config.LoadSchema(schemaPath)
			if err != nil {
				return exitErrorf(exitConfigError, "%v", err)
			}
			prompts, err := config.LoadPrompts(promptsPath)
			if err != nil {
				return exitErrorf(exitConfigError, "%v", err)
			}
			prompts = config.Repeat(prompts, repeat)
			weights, err := config.ParseWeights(weightsRaw)
			if err != nil {
				return exitErrorf(exitConfigError, "%v", err)
			}

			var judge aggregation.JudgeScorer
			if aggregate == string(domain.AggregateJudge) {
				if judgeProvider == "" {
					return exitErrorf(exitConfigError, "--judge is required when --aggregate=judge")
				}
				jp, err := spi.New(judgeProvider, domain.ProviderConfig{Provider: judgeProvider, Model: judgeModel})
				if err != nil {
					return exitErrorf(exitConfigError, "%v", err)
				}
				judge = judgeprovider.New(jp, judgeModel)
			}

			var sink metrics.Logger
			if metricsPath != "" {
				jsonlLogger, err := metrics.NewJSONLLogger(metricsPath, nil)
				if err != nil {
					return exitErrorf(exitConfigError, "%v", err)
				}
				defer jsonlLogger.Close()
				sink = jsonlLogger
			} else {
				sink = metrics.NewMemoryLogger()
			}

			runnerCfg := domain.RunnerConfig{
				Mode:            domain.Mode(mode),
				Aggregate:       domain.AggregateKind(aggregate),
				Quorum:          quorum,
				TieBreaker:      tieBreaker,
				ProviderWeights: weights,
				SchemaPath:      schemaPath,
				MaxConcurrency:  maxConcurrency,
				RPM:             rpm,
				Backoff:         domain.BackoffPolicy{TimeoutNextProvider: true, RetryableNextProvider: true},
				MetricsPath:     metricsPath,
				AllowOverrun:    allowOverrun,
				ShadowProvider:  shadowProvider,
			}

			r, err := runnerpkg.New(runnerCfg, providerConfigs, book, schemaDoc, sink, judge, nil)
			if err != nil {
				return exitErrorf(exitConfigError, "%v", err)
			}

			worstExit := exitOK
			for _, prompt := range prompts {
				result := r.Run(cmd.Context(), prompt)
				printRunResult(cmd, prompt, result)
				if code := exitCodeFor(result); code > worstExit {
					worstExit = code
				}
			}
			if worstExit != exitOK {
				return &cliExitError{code: worstExit, message: "run completed with failures"}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&providerPaths, "providers", nil, "provider config YAML file(s), one per provider")
	cmd.Flags().StringVar(&promptsPath, "prompts", "", "prompt set JSONL file")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of times to repeat each prompt")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeSequential), "execution mode: sequential|parallel_any|parallel_all|consensus")
	cmd.Flags().StringVar(&aggregate, "aggregate", string(domain.AggregateMajorityVote), "aggregation strategy for consensus mode")
	cmd.Flags().IntVar(&quorum, "quorum", 2, "minimum vote count required for consensus to succeed")
	cmd.Flags().StringVar(&tieBreaker, "tie-breaker", "stable_order", "tie-breaking strategy for aggregation")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON-Schema file gating successful outputs")
	cmd.Flags().StringVar(&judgeProvider, "judge", "", "provider name to use as aggregate=judge scorer")
	cmd.Flags().StringVar(&judgeModel, "judge-model", "", "model to use for the judge provider")
	cmd.Flags().StringVar(&weightsRaw, "weights", "", "comma-separated provider=weight pairs for aggregate=weighted_vote")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "maximum concurrent provider workers (0 = unbounded)")
	cmd.Flags().IntVar(&rpm, "rpm", 0, "requests-per-minute rate limit shared across providers (0 = unlimited)")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "JSONL file to append provider_call/run_metric events to")
	cmd.Flags().StringVar(&budgetsPath, "budgets", "", "budget book YAML file")
	cmd.Flags().BoolVar(&allowOverrun, "allow-overrun", false, "continue past a budget cap instead of stopping the run")
	cmd.Flags().StringVar(&shadowProvider, "shadow-provider", "", "roster provider name to run as a non-blocking shadow comparison")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")

	return cmd
}

// parseLogLevel maps the --log-level flag to an slog.Level, defaulting to
// Info for an empty or unrecognized value.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printRunResult(cmd *cobra.Command, prompt domain.PromptSpec, result runnerpkg.RunResult) {
	for _, r := range result.Batch {
		if r.Metrics == nil {
			continue
		}
		status := string(r.Metrics.Status)
		if r.Metrics.Status == domain.StatusOK && r.Metrics.OutputText != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s/%s: %s\n", prompt.ID, r.Metrics.Provider, status, strings.TrimSpace(*r.Metrics.OutputText))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s/%s: %s (%s)\n", prompt.ID, r.Metrics.Provider, status, r.Metrics.FailureKind, r.Metrics.ErrorMessage)
		}
	}
	if result.Aggregated != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] aggregated/%s: %s\n", prompt.ID, result.Aggregated.Strategy, result.Aggregated.Chosen.Text)
	}
}

// exitCodeFor maps a RunResult's error to the spec's exit-code taxonomy,
// preferring the most specific failure_kind seen across the batch over a
// generic "all providers failed" code.
func exitCodeFor(result runnerpkg.RunResult) int {
	if result.Err == nil {
		return exitOK
	}
	for _, r := range result.Batch {
		if r.Metrics != nil && r.Metrics.Budget.HitStop {
			return exitBudgetExceeded
		}
	}
	for _, r := range result.Batch {
		if r.Metrics == nil {
			continue
		}
		switch r.Metrics.FailureKind {
		case domain.FailureConsensusQuorum:
			return exitQuorumNotMet
		case domain.FailureSchemaViolation:
			return exitSchemaViolation
		}
	}
	return exitAllFailed
}

// cliExitError carries a specific process exit code through cobra's
// RunE error path (spec.md §6 "Exit codes").
type cliExitError struct {
	code    int
	message string
}

func (e *cliExitError) Error() string { return e.message }

func exitErrorf(code int, format string, args ...interface{}) error {
	return &cliExitError{code: code, message: fmt.Sprintf(format, args...)}
}

// exitCodeFromError extracts the process exit code from err, defaulting to
// 1 for any error that is not a *cliExitError.
func exitCodeFromError(err error) int {
	if err == nil {
		return exitOK
	}
	if exitErr, ok := err.(*cliExitError); ok {
		return exitErr.code
	}
	return 1
}
