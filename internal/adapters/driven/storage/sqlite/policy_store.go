package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// policyStore implements driven.PolicyStore.
type policyStore struct {
	db *sql.DB
}

var _ driven.PolicyStore = (*policyStore)(nil)

// ReplaceCorpus swaps the stored corpus for a new one in a single transaction.
func (s *policyStore) ReplaceCorpus(ctx context.Context, policies []domain.IndexedPolicy) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM policies"); err != nil {
		return fmt.Errorf("clearing policies: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO policies (id, content, deep_link, region, min_client_version, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range policies {
		doc := p.Document
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Content, doc.DeepLink,
			doc.Metadata.Region, doc.Metadata.MinClientVersion,
			float32SliceToBytes(p.Embedding)); err != nil {
			return fmt.Errorf("inserting policy %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing corpus: %w", err)
	}
	return nil
}

// LoadCorpus returns every stored policy ordered by ID.
func (s *policyStore) LoadCorpus(ctx context.Context) ([]domain.IndexedPolicy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, deep_link, region, min_client_version, embedding
		FROM policies
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying policies: %w", err)
	}
	defer rows.Close()

	var policies []domain.IndexedPolicy
	for rows.Next() {
		var p domain.IndexedPolicy
		var embeddingBlob []byte
		if err := rows.Scan(&p.Document.ID, &p.Document.Content, &p.Document.DeepLink,
			&p.Document.Metadata.Region, &p.Document.Metadata.MinClientVersion,
			&embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning policy: %w", err)
		}
		p.Embedding = bytesToFloat32Slice(embeddingBlob)
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
