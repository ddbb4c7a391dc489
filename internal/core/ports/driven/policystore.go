package driven

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// PolicyStore persists the indexed policy corpus.
// The offline index build writes it; the request path only reads it at startup.
type PolicyStore interface {
	// ReplaceCorpus atomically swaps the stored corpus.
	ReplaceCorpus(ctx context.Context, policies []domain.IndexedPolicy) error

	// LoadCorpus returns every stored policy ordered by document ID.
	LoadCorpus(ctx context.Context) ([]domain.IndexedPolicy, error)
}

// CorpusSource reads the raw policy corpus consumed by the index build.
type CorpusSource interface {
	Load(ctx context.Context) ([]domain.PolicyDocument, error)
}
