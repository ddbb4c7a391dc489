package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// The approximate nearest neighbour implementation is an external concern.
type VectorIndex interface {
	// Add inserts a vector for the given document ID.
	Add(ctx context.Context, documentID string, embedding []float32) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// DocumentID is the matched document.
	DocumentID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
