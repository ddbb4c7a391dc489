package driving

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// RetrievalService provides policy retrieval to external actors.
type RetrievalService interface {
	// Retrieve runs hybrid retrieval over the policy corpus.
	// An empty result is not an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.FusedResult, error)
}

// PolicyCatalog exposes the loaded policy corpus for browsing.
type PolicyCatalog interface {
	// Document returns a policy by ID.
	Document(id string) (domain.PolicyDocument, bool)

	// Documents returns every policy ordered by ID.
	Documents() []domain.PolicyDocument
}
