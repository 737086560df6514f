// Package metrics implements the runner's structured event telemetry
// (spec.md §4.9): a JSONL event stream of provider_call and run_metric
// records, fanned out to one or more sinks. Grounded on the teacher's
// pkg/util/json (jsoniter-backed marshal) and pkg/util/metrics registry
// conventions (composable, independently-failing sinks).
package metrics

import (
	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// Kind identifies the shape of an emitted Event.
type Kind string

const (
	// KindProviderCall records one provider attempt (spec.md §4.9).
	KindProviderCall Kind = "provider_call"
	// KindRunMetric records the terminal outcome of one provider's attempt.
	KindRunMetric Kind = "run_metric"
)

// Event is one structured telemetry record. Every line in the JSONL stream
// carries an "event" discriminator plus the RunMetrics schema fields
// (spec.md §6, "Metrics output"), flattened via Go's anonymous-field JSON
// embedding. Attempt carries the attempt number a provider_call belongs to;
// it is zero (omitted) on run_metric records.
type Event struct {
	EventKind Kind `json:"event"`
	Attempt   int  `json:"attempt,omitempty"`
	domain.RunMetrics
}

// ProviderCallEvent builds a provider_call Event for one attempt number.
func ProviderCallEvent(attemptNumber int, metrics domain.RunMetrics) Event {
	return Event{EventKind: KindProviderCall, Attempt: attemptNumber, RunMetrics: metrics}
}

// RunMetricEvent builds the terminal run_metric Event for a provider.
func RunMetricEvent(metrics domain.RunMetrics) Event {
	return Event{EventKind: KindRunMetric, RunMetrics: metrics}
}

// Logger receives telemetry Events. Implementations must be safe for
// concurrent use: the runner emits from multiple goroutines under
// ParallelAll/ParallelAny/Consensus execution.
type Logger interface {
	Emit(Event)
}
