package driven

import "context"

// KeywordIndex provides term-weighted keyword search over the policy corpus.
// It is built once at startup and only read afterwards.
type KeywordIndex interface {
	// Search scores the query against every document and returns hits
	// with a positive score, best first, at most limit of them.
	Search(ctx context.Context, query string, limit int) ([]KeywordHit, error)

	// Len returns the number of indexed documents.
	Len() int
}

// KeywordHit represents a keyword search result.
type KeywordHit struct {
	// DocumentID is the matched document.
	DocumentID string

	// Score is the cosine similarity of the weighted term vectors.
	Score float64
}
