package mcp

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// mockTriageService is a mock implementation of driving.TriageService.
type mockTriageService struct {
	build func(q domain.Query) *domain.AgentState
	seen  []domain.Query
}

func (m *mockTriageService) Triage(_ context.Context, q domain.Query) *domain.AgentState {
	m.seen = append(m.seen, q)
	if m.build != nil {
		return m.build(q)
	}
	state := domain.NewAgentState(q)
	state.Escalate(domain.ReasonLowConfidence, "fallback")
	return state
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.FusedResult
	err     error
	query   string
	opts    domain.RetrievalOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	query string,
	opts domain.RetrievalOptions,
) ([]domain.FusedResult, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

// mockCatalog is a mock implementation of driving.PolicyCatalog.
type mockCatalog struct {
	docs []domain.PolicyDocument
}

func (m *mockCatalog) Document(id string) (domain.PolicyDocument, bool) {
	for _, d := range m.docs {
		if d.ID == id {
			return d, true
		}
	}
	return domain.PolicyDocument{}, false
}

func (m *mockCatalog) Documents() []domain.PolicyDocument {
	return m.docs
}
