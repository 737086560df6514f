package aggregation

import (
	"sort"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// TieBreaker picks one candidate from a tied group. Name reports which
// axis actually discriminated the last Break call, for AggregationResult's
// tie_breaker_used metadata (spec.md §4.5, §8 property 9).
type TieBreaker interface {
	Name() string
	Break(candidates []domain.AggregationCandidate) domain.AggregationCandidate
}

// StableOrderTieBreaker always picks the lowest candidate index ("first"),
// mirroring the original's FirstTieBreaker.
type StableOrderTieBreaker struct{}

func (StableOrderTieBreaker) Name() string { return "first" }

func (StableOrderTieBreaker) Break(candidates []domain.AggregationCandidate) domain.AggregationCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Index < best.Index {
			best = c
		}
	}
	return best
}

// CompositeTieBreaker orders candidates by a sequence of axes and reports
// the first axis that actually discriminates between ties (spec.md §4.5
// "deterministic ordering: latency → cost → stable index"), grounded on
// the original's _CompositeTieBreaker.break_tie.
type CompositeTieBreaker struct {
	order    []string // axis names in priority order, e.g. ["latency", "cost", "stable_order"]
	lastUsed string
}

// NewCompositeTieBreaker builds a CompositeTieBreaker trying axes in order.
// Any axis missing from order is appended afterward so every tie is
// eventually resolved by stable_order.
func NewCompositeTieBreaker(order ...string) *CompositeTieBreaker {
	seen := map[string]bool{}
	full := make([]string, 0, 3)
	for _, axis := range order {
		if !seen[axis] {
			seen[axis] = true
			full = append(full, axis)
		}
	}
	for _, axis := range []string{"latency", "cost", "stable_order"} {
		if !seen[axis] {
			seen[axis] = true
			full = append(full, axis)
		}
	}
	return &CompositeTieBreaker{order: full, lastUsed: full[len(full)-1]}
}

func (c *CompositeTieBreaker) Name() string { return displayName(c.lastUsed) }

func displayName(axis string) string {
	if axis == "stable_order" {
		return "first"
	}
	return axis
}

func axisValue(axis string, c domain.AggregationCandidate) float64 {
	switch axis {
	case "latency":
		return float64(c.Response.LatencyMS)
	case "cost":
		return c.CostUSD
	default:
		return float64(c.Index)
	}
}

// Break scores every candidate as a tuple over c.order, picks the
// lexicographically smallest, and records which axis first distinguished
// it from the rest of the tied group.
func (c *CompositeTieBreaker) Break(candidates []domain.AggregationCandidate) domain.AggregationCandidate {
	type scored struct {
		candidate domain.AggregationCandidate
		values    []float64
	}
	entries := make([]scored, len(candidates))
	for i, cand := range candidates {
		values := make([]float64, len(c.order))
		for j, axis := range c.order {
			values[j] = axisValue(axis, cand)
		}
		entries[i] = scored{candidate: cand, values: values}
	}
	sort.Slice(entries, func(i, j int) bool {
		for k := range entries[i].values {
			if entries[i].values[k] != entries[j].values[k] {
				return entries[i].values[k] < entries[j].values[k]
			}
		}
		return false
	})

	best := entries[0]
	chosenAxis := c.order[len(c.order)-1]
	for axisIdx, axis := range c.order {
		pivot := best.values[axisIdx]
		discriminates := false
		for _, e := range entries[1:] {
			if e.values[axisIdx] != pivot {
				discriminates = true
				break
			}
		}
		if discriminates {
			chosenAxis = axis
			break
		}
	}
	c.lastUsed = chosenAxis
	return best.candidate
}
