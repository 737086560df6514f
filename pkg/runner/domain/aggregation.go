package domain

// AggregationCandidate is built by the aggregation selector from ok attempts
// with non-empty output (spec.md §3, "Candidate").
type AggregationCandidate struct {
	Index    int
	Provider string
	Response ProviderResponse
	Text     string
	Score    *float64
	// CostUSD mirrors the owning attempt's RunMetrics.CostUSD, carried
	// alongside the candidate so tie-breaking can order by cost without a
	// separate index->metrics lookup (spec.md §4.5 "latency → cost →
	// stable index").
	CostUSD float64
}

// AggregationResult is returned by an aggregation strategy and drives the
// runner's ci_meta tagging.
type AggregationResult struct {
	Chosen        AggregationCandidate
	Candidates    []AggregationCandidate
	Strategy      string
	Reason        string
	TieBreakerUsed string
	Metadata      map[string]interface{}
}
