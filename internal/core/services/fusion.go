package services

import (
	"sort"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// DefaultRRFK is the reciprocal rank fusion constant.
const DefaultRRFK = 60

// ReciprocalRankFusion merges ranked candidate lists.
//
// Each document scores 1/(k+rank) per list it appears in, with rank
// starting at 1. Only the first occurrence of a document in a list counts.
// Results are ordered by fused score descending, ties by document ID.
func ReciprocalRankFusion(k int, lists ...[]domain.RetrievalCandidate) []domain.FusedResult {
	if k <= 0 {
		k = DefaultRRFK
	}

	fused := make(map[string]*domain.FusedResult)
	for _, list := range lists {
		seen := make(map[string]bool, len(list))
		rank := 0
		for _, c := range list {
			if seen[c.DocumentID] {
				continue
			}
			seen[c.DocumentID] = true
			rank++

			r, ok := fused[c.DocumentID]
			if !ok {
				r = &domain.FusedResult{DocumentID: c.DocumentID}
				fused[c.DocumentID] = r
			}
			r.Score += 1.0 / float64(k+rank)
			if r.Text == "" {
				r.Text = c.Text
			}
			if r.DeepLink == "" {
				r.DeepLink = c.DeepLink
			}
			r.Signals = append(r.Signals, c.Signal)
		}
	}

	results := make([]domain.FusedResult, 0, len(fused))
	for _, r := range fused {
		results = append(results, *r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})
	return results
}
