package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Ensure TicketSink implements the interface.
var _ driven.TicketSink = (*TicketSink)(nil)

// TicketSink is an in-memory implementation of driven.TicketSink.
type TicketSink struct {
	mu      sync.RWMutex
	records []domain.IncidentRecord
}

// NewTicketSink creates a new in-memory ticket sink.
func NewTicketSink() *TicketSink {
	return &TicketSink{}
}

// CreateIncident records the snapshot and returns a new incident ID.
func (s *TicketSink) CreateIncident(_ context.Context, snapshot domain.IncidentSnapshot) (string, error) {
	at := snapshot.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	id := fmt.Sprintf("INC-%s-%s", at.UTC().Format("20060102"), uuid.NewString()[:8])

	snapshot.Signals = maps.Clone(snapshot.Signals)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, domain.IncidentRecord{ID: id, Snapshot: snapshot})
	return id, nil
}

// Incidents returns the recorded incidents, newest first.
func (s *TicketSink) Incidents(_ context.Context) ([]domain.IncidentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IncidentRecord, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out, nil
}
