package driven

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// TicketSink is the ticketing collaborator.
type TicketSink interface {
	// CreateIncident stores the snapshot and returns an incident identifier.
	CreateIncident(ctx context.Context, snapshot domain.IncidentSnapshot) (string, error)
}
