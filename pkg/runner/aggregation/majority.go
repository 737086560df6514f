package aggregation

import (
	"context"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// MajorityVoteStrategy picks the candidate whose normalized text occurs
// most often, grounded on the original's MajorityVoteStrategy (groups by
// whitespace/case-insensitive text, spec.md §8 property 7).
type MajorityVoteStrategy struct{}

// NewMajorityVoteStrategy builds a MajorityVoteStrategy.
func NewMajorityVoteStrategy() *MajorityVoteStrategy { return &MajorityVoteStrategy{} }

func (*MajorityVoteStrategy) Name() string { return "majority_vote" }

func (s *MajorityVoteStrategy) Aggregate(_ context.Context, candidates []domain.AggregationCandidate, tiebreaker TieBreaker) (domain.AggregationResult, error) {
	buckets := groupByNormalizedText(candidates)
	winner := largestBucket(buckets)

	result := domain.AggregationResult{
		Candidates: candidates,
		Strategy:   s.Name(),
		Metadata:   map[string]interface{}{"bucket_size": len(winner.members)},
	}
	result.Chosen = pickWithinBucket(winner.members, tiebreaker, &result)
	return result, nil
}

type bucket struct {
	key     string
	members []domain.AggregationCandidate
}

func groupByNormalizedText(candidates []domain.AggregationCandidate) []bucket {
	index := map[string]int{}
	var buckets []bucket
	for _, c := range candidates {
		key := normalizeText(c.Text)
		if i, ok := index[key]; ok {
			buckets[i].members = append(buckets[i].members, c)
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, bucket{key: key, members: []domain.AggregationCandidate{c}})
	}
	return buckets
}

func largestBucket(buckets []bucket) bucket {
	best := buckets[0]
	for _, b := range buckets[1:] {
		if len(b.members) > len(best.members) {
			best = b
		}
	}
	return best
}

// pickWithinBucket resolves the single candidate within a winning bucket,
// consulting tiebreaker when the bucket has more than one member, and
// recording which axis decided it.
func pickWithinBucket(members []domain.AggregationCandidate, tiebreaker TieBreaker, result *domain.AggregationResult) domain.AggregationCandidate {
	if len(members) == 1 || tiebreaker == nil {
		return members[0]
	}
	chosen := tiebreaker.Break(members)
	result.TieBreakerUsed = tiebreaker.Name()
	return chosen
}
