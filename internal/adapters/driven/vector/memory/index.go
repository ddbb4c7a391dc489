// Package memory provides a brute-force in-memory vector index.
//
// Vectors are loaded from the durable policy index at startup. Search
// computes cosine similarity against every stored vector, which is exact
// and fast enough for a policy corpus of a few thousand documents.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores one vector per document.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	vectors    map[string][]float32
	closed     bool
}

// New creates an index. A dimensions value of zero accepts the size of
// the first vector added.
func New(dimensions int) *Index {
	return &Index{
		dimensions: dimensions,
		vectors:    make(map[string][]float32),
	}
}

// Add inserts or replaces the vector for a document.
func (idx *Index) Add(_ context.Context, documentID string, embedding []float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrVectorIndexUnavailable
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding for %s", domain.ErrInvalidInput, documentID)
	}
	if idx.dimensions == 0 {
		idx.dimensions = len(embedding)
	}
	if len(embedding) != idx.dimensions {
		return fmt.Errorf("%w: embedding for %s has %d dimensions, want %d",
			domain.ErrInvalidInput, documentID, len(embedding), idx.dimensions)
	}

	idx.vectors[documentID] = append([]float32(nil), embedding...)
	return nil
}

// Search returns the k most similar documents, best first.
// Equal similarities are ordered by document ID.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if k <= 0 || len(idx.vectors) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrInvalidInput, len(query), idx.dimensions)
	}

	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for id, vec := range idx.vectors {
		hits = append(hits, driven.VectorHit{DocumentID: id, Similarity: cosineSimilarity(query, vec)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimensions returns the vector size accepted by the index.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimensions
}

// Close releases the stored vectors.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors = nil
	idx.closed = true
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
