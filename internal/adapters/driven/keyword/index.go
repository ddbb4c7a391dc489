package keyword

import (
	"context"
	"math"
	"sort"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.KeywordIndex = (*Index)(nil)

// Index is a TF-IDF inverted index over policy documents.
type Index struct {
	ids      []string
	vectors  []map[string]float64
	idf      map[string]float64
	postings map[string][]int
}

// New builds an index over the documents.
func New(docs []domain.PolicyDocument) *Index {
	idx := &Index{
		ids:      make([]string, len(docs)),
		vectors:  make([]map[string]float64, len(docs)),
		idf:      make(map[string]float64),
		postings: make(map[string][]int),
	}

	counts := make([]map[string]int, len(docs))
	for i, d := range docs {
		idx.ids[i] = d.ID
		counts[i] = termCounts(Tokenize(d.Content))
		for term := range counts[i] {
			idx.postings[term] = append(idx.postings[term], i)
		}
	}

	n := float64(len(docs))
	for term, docsWithTerm := range idx.postings {
		// Smoothed idf keeps terms present in every document above zero.
		idx.idf[term] = math.Log((1+n)/(1+float64(len(docsWithTerm)))) + 1
	}

	for i := range docs {
		idx.vectors[i] = idx.weigh(counts[i])
	}
	return idx
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Search returns documents with a positive cosine score, best first.
// Equal scores are ordered by document ID.
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]driven.KeywordHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []driven.KeywordHit{}, nil
	}

	qv := idx.weigh(termCounts(Tokenize(query)))
	if len(qv) == 0 {
		return []driven.KeywordHit{}, nil
	}

	// Accumulate in term order so equal inputs give bit-identical scores.
	scores := make(map[int]float64)
	for _, term := range sortedTerms(qv) {
		w := qv[term]
		for _, doc := range idx.postings[term] {
			scores[doc] += w * idx.vectors[doc][term]
		}
	}

	hits := make([]driven.KeywordHit, 0, len(scores))
	for doc, score := range scores {
		if score > 0 {
			hits = append(hits, driven.KeywordHit{DocumentID: idx.ids[doc], Score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// weigh turns term counts into a unit-length TF-IDF vector.
// Terms unknown to the corpus are dropped.
func (idx *Index) weigh(counts map[string]int) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	var norm float64
	for _, term := range sortedTerms(counts) {
		idf, ok := idx.idf[term]
		if !ok {
			continue
		}
		w := float64(counts[term]) * idf
		vec[term] = w
		norm += w * w
	}
	if norm == 0 {
		return map[string]float64{}
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

func sortedTerms[V any](m map[string]V) []string {
	terms := make([]string, 0, len(m))
	for t := range m {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}
