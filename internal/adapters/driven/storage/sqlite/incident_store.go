package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// incidentStore implements driven.TicketSink by persisting snapshots.
type incidentStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ driven.TicketSink = (*incidentStore)(nil)

func newIncidentStore(db *sql.DB) *incidentStore {
	return &incidentStore{db: db, now: time.Now}
}

// NewIncidentID returns an identifier of the form INC-YYYYMMDD-xxxxxxxx.
func NewIncidentID(at time.Time) string {
	return fmt.Sprintf("INC-%s-%s", at.UTC().Format("20060102"), uuid.NewString()[:8])
}

// CreateIncident stores the snapshot and returns its incident ID.
func (s *incidentStore) CreateIncident(ctx context.Context, snapshot domain.IncidentSnapshot) (string, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now().UTC()
	}
	id := NewIncidentID(createdAt)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO incidents (id, user_id, intent, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, snapshot.UserID, snapshot.Intent.String(), string(payload), createdAt)
	if err != nil {
		return "", fmt.Errorf("inserting incident: %w", err)
	}
	return id, nil
}

// Incidents returns stored incidents, newest first.
func (s *Store) Incidents(ctx context.Context) ([]domain.IncidentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, snapshot FROM incidents ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying incidents: %w", err)
	}
	defer rows.Close()

	var records []domain.IncidentRecord
	for rows.Next() {
		var rec domain.IncidentRecord
		var payload string
		if err := rows.Scan(&rec.ID, &payload); err != nil {
			return nil, fmt.Errorf("scanning incident: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
