// Package memory provides in-memory implementations of the storage ports.
// They are used for tests and for runs without a data directory.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Ensure PolicyStore implements the interface.
var _ driven.PolicyStore = (*PolicyStore)(nil)

// PolicyStore is an in-memory implementation of driven.PolicyStore.
type PolicyStore struct {
	mu       sync.RWMutex
	policies []domain.IndexedPolicy
}

// NewPolicyStore creates a new in-memory policy store.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{}
}

// ReplaceCorpus stores a copy of the corpus, replacing any previous one.
func (s *PolicyStore) ReplaceCorpus(_ context.Context, policies []domain.IndexedPolicy) error {
	copied := make([]domain.IndexedPolicy, len(policies))
	for i, p := range policies {
		copied[i] = domain.IndexedPolicy{
			Document:  p.Document,
			Embedding: slices.Clone(p.Embedding),
		}
	}
	slices.SortFunc(copied, func(a, b domain.IndexedPolicy) int {
		return strings.Compare(a.Document.ID, b.Document.ID)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = copied
	return nil
}

// LoadCorpus returns a copy of the stored corpus ordered by ID.
func (s *PolicyStore) LoadCorpus(_ context.Context) ([]domain.IndexedPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IndexedPolicy, len(s.policies))
	for i, p := range s.policies {
		out[i] = domain.IndexedPolicy{
			Document:  p.Document,
			Embedding: slices.Clone(p.Embedding),
		}
	}
	return out, nil
}
