package mcp

import (
	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Triage answers questions end to end.
	Triage driving.TriageService

	// Retrieval exposes raw policy retrieval. Optional.
	Retrieval driving.RetrievalService

	// Policies exposes the loaded corpus as resources. Optional.
	Policies driving.PolicyCatalog

	// RetrievalSettings supplies retrieval defaults for the retrieve tool.
	RetrievalSettings domain.RetrievalSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Triage == nil {
		return ErrMissingTriageService
	}
	return nil
}
