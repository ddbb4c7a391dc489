package driving

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// TriageService decides how a single field worker question is handled.
type TriageService interface {
	// Triage runs the pipeline for one query. It never fails: every error
	// becomes a human fallback on the returned state.
	Triage(ctx context.Context, q domain.Query) *domain.AgentState
}
