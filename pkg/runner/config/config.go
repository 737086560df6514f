// Package config loads the runner's YAML configuration surface (spec.md
// §6): per-provider config files, the budget book, and the optional
// JSON-Schema gate, using the same koanf/yaml stack the teacher's cmd
// package depends on (github.com/knadh/koanf, gopkg.in/yaml.v3) for
// loading provider/config.yaml-style documents.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lexlapax/go-llms/pkg/runner/budget"
	"github.com/lexlapax/go-llms/pkg/runner/domain"
	"github.com/lexlapax/go-llms/pkg/runner/schema"
)

// providerDoc mirrors one provider YAML file's shape (spec.md §6 "Config
// files").
type providerDoc struct {
	Provider string            `koanf:"provider"`
	Model    string            `koanf:"model"`
	AuthEnv  string            `koanf:"auth_env"`
	Endpoint string            `koanf:"endpoint"`
	Seed     int               `koanf:"seed"`

	Temperature float64 `koanf:"temperature"`
	TopP        float64 `koanf:"top_p"`
	MaxTokens   int     `koanf:"max_tokens"`
	TimeoutS    float64 `koanf:"timeout_s"`

	Retries struct {
		Max      int     `koanf:"max"`
		BackoffS float64 `koanf:"backoff_s"`
	} `koanf:"retries"`

	Pricing struct {
		PromptUSD        float64 `koanf:"prompt_usd"`
		CompletionUSD    float64 `koanf:"completion_usd"`
		InputPerMillion  float64 `koanf:"input_per_million"`
		OutputPerMillion float64 `koanf:"output_per_million"`
	} `koanf:"pricing"`

	RateLimit struct {
		RPM int `koanf:"rpm"`
		TPM int `koanf:"tpm"`
	} `koanf:"rate_limit"`

	QualityGates struct {
		DeterminismDiffRateMax float64 `koanf:"determinism_diff_rate_max"`
		DeterminismLenStdevMax float64 `koanf:"determinism_len_stdev_max"`
	} `koanf:"quality_gates"`

	Options map[string]interface{} `koanf:"options"`
	Env     map[string]string      `koanf:"env"`
}

// LoadProvider reads one provider YAML config file into a
// domain.ProviderConfig.
func LoadProvider(path string) (domain.ProviderConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return domain.ProviderConfig{}, fmt.Errorf("config: loading provider file %q: %w", path, err)
	}
	var doc providerDoc
	if err := k.Unmarshal("", &doc); err != nil {
		return domain.ProviderConfig{}, fmt.Errorf("config: parsing provider file %q: %w", path, err)
	}
	if doc.Provider == "" {
		return domain.ProviderConfig{}, &domain.ConfigError{Message: fmt.Sprintf("%s: missing required field \"provider\"", path)}
	}
	return domain.ProviderConfig{
		Provider:    doc.Provider,
		Model:       doc.Model,
		AuthEnv:     doc.AuthEnv,
		Endpoint:    doc.Endpoint,
		Seed:        doc.Seed,
		Temperature: doc.Temperature,
		TopP:        doc.TopP,
		MaxTokens:   doc.MaxTokens,
		TimeoutS:    doc.TimeoutS,
		Retries:     domain.RetryPolicy{Max: doc.Retries.Max, BackoffS: doc.Retries.BackoffS},
		Pricing: domain.PricingConfig{
			PromptUSD:        doc.Pricing.PromptUSD,
			CompletionUSD:    doc.Pricing.CompletionUSD,
			InputPerMillion:  doc.Pricing.InputPerMillion,
			OutputPerMillion: doc.Pricing.OutputPerMillion,
		},
		RateLimit:    domain.RateLimitConfig{RPM: doc.RateLimit.RPM, TPM: doc.RateLimit.TPM},
		QualityGates: domain.QualityGatesConfig{DeterminismDiffRateMax: doc.QualityGates.DeterminismDiffRateMax, DeterminismLenStdevMax: doc.QualityGates.DeterminismLenStdevMax},
		Options:      doc.Options,
		Env:          doc.Env,
	}, nil
}

// LoadProviders loads every path in paths, in order.
func LoadProviders(paths []string) ([]domain.ProviderConfig, error) {
	configs := make([]domain.ProviderConfig, 0, len(paths))
	for _, p := range paths {
		cfg, err := LoadProvider(p)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

type budgetRule struct {
	RunBudgetUSD       float64 `koanf:"run_budget_usd"`
	DailyBudgetUSD     float64 `koanf:"daily_budget_usd"`
	StopOnBudgetExceed bool    `koanf:"stop_on_budget_exceed"`
}

type budgetDoc struct {
	Default   budgetRule            `koanf:"default"`
	Overrides map[string]budgetRule `koanf:"overrides"`
}

// LoadBudgetBook reads the budget book YAML (spec.md §6 "Budget book
// YAML"). An empty path means "no budgets configured" (every rule is
// zero-valued, i.e. no caps).
func LoadBudgetBook(path string) (budget.Book, error) {
	if path == "" {
		return budget.Book{}, nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return budget.Book{}, fmt.Errorf("config: loading budget book %q: %w", path, err)
	}
	var doc budgetDoc
	if err := k.Unmarshal("", &doc); err != nil {
		return budget.Book{}, fmt.Errorf("config: parsing budget book %q: %w", path, err)
	}
	overrides := make(map[string]budget.Rule, len(doc.Overrides))
	for provider, r := range doc.Overrides {
		overrides[provider] = budget.Rule{RunBudgetUSD: r.RunBudgetUSD, DailyBudgetUSD: r.DailyBudgetUSD, StopOnBudgetExceed: r.StopOnBudgetExceed}
	}
	return budget.Book{
		Default:   budget.Rule{RunBudgetUSD: doc.Default.RunBudgetUSD, DailyBudgetUSD: doc.Default.DailyBudgetUSD, StopOnBudgetExceed: doc.Default.StopOnBudgetExceed},
		Overrides: overrides,
	}, nil
}

// LoadSchema reads an optional JSON-Schema document from path. An empty
// path means "no schema gate configured."
func LoadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading schema file %q: %w", path, err)
	}
	return schema.Load(data)
}

// ParseWeights parses a `--weights key=val,key2=val2` flag value into a
// provider -> weight map.
func ParseWeights(raw string) (map[string]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	weights := map[string]float64{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, &domain.ConfigError{Message: fmt.Sprintf("invalid --weights entry %q, want key=value", pair)}
		}
		var value float64
		if _, err := fmt.Sscanf(strings.TrimSpace(kv[1]), "%g", &value); err != nil {
			return nil, &domain.ConfigError{Message: fmt.Sprintf("invalid --weights value for %q: %v", kv[0], err)}
		}
		weights[strings.TrimSpace(kv[0])] = value
	}
	return weights, nil
}
