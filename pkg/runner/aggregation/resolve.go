package aggregation

import "strings"

var tieBreakerAliases = map[string]string{
	"latency":      "latency",
	"min_latency":  "latency",
	"cost":         "cost",
	"min_cost":     "cost",
	"first":        "stable_order",
	"stable_order": "stable_order",
}

// ResolveTieBreaker maps a configured tie-breaker name (spec.md §6
// `--tie-breaker` ∈ {min_latency, min_cost, stable_order}, plus the
// original's aliases) to a TieBreaker, preferring that axis and falling
// back through latency → cost → stable_order. An empty name falls back to
// the full default chain. An unrecognized non-empty name is invalid
// configuration and returns ok=false.
func ResolveTieBreaker(name string) (tb TieBreaker, ok bool) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return NewCompositeTieBreaker(), true
	}
	preferred, known := tieBreakerAliases[trimmed]
	if !known {
		return nil, false
	}
	if preferred == "stable_order" {
		return StableOrderTieBreaker{}, true
	}
	return NewCompositeTieBreaker(preferred), true
}
