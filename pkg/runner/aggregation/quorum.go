package aggregation

// Votes counts how many ok candidates match the winner's normalized text,
// used by Consensus mode to decide whether the winning bucket satisfies
// quorum (spec.md §4.5, §8 property 5). It prefers the strategy's own
// bucket_size metadata when present (majority/weighted vote already
// computed it); otherwise it recomputes by normalized-text comparison,
// grounded on the original's AggregationSelector.select vote-counting
// fallback.
func Votes(metadata map[string]interface{}, winnerText string, candidateTexts []string) int {
	if raw, ok := metadata["bucket_size"]; ok {
		if n, ok := raw.(int); ok {
			return n
		}
	}
	want := normalizeText(winnerText)
	votes := 0
	for _, text := range candidateTexts {
		if normalizeText(text) == want {
			votes++
		}
	}
	return votes
}

// MeetsQuorum reports whether votes satisfies quorum. quorum <= 0 means no
// quorum requirement (always satisfied).
func MeetsQuorum(votes, quorum int) bool {
	return quorum <= 0 || votes >= quorum
}
