package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// maxConcurrentBatches bounds in-flight embedding requests.
const maxConcurrentBatches = 4

// IndexService builds the durable policy index offline.
type IndexService struct {
	source           driven.CorpusSource
	store            driven.PolicyStore
	embeddingService driven.EmbeddingService
	batchSize        int
}

// NewIndexService creates an index builder. The embedding service is
// optional; without it only the keyword signal is available at serve time.
func NewIndexService(
	source driven.CorpusSource,
	store driven.PolicyStore,
	embeddingService driven.EmbeddingService,
	batchSize int,
) *IndexService {
	if batchSize <= 0 {
		batchSize = 16
	}
	return &IndexService{
		source:           source,
		store:            store,
		embeddingService: embeddingService,
		batchSize:        batchSize,
	}
}

// Build loads the corpus, embeds it in batches and replaces the stored index.
func (s *IndexService) Build(ctx context.Context) (driving.IndexReport, error) {
	logger.Section("Index Build")

	docs, err := s.source.Load(ctx)
	if err != nil {
		return driving.IndexReport{}, fmt.Errorf("load corpus: %w", err)
	}
	if err := ValidateCorpus(docs); err != nil {
		return driving.IndexReport{}, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	logger.Info("Loaded %d policies", len(docs))

	policies := make([]domain.IndexedPolicy, len(docs))
	for i, d := range docs {
		policies[i] = domain.IndexedPolicy{Document: d}
	}

	report := driving.IndexReport{Documents: len(policies)}
	if s.embeddingService != nil {
		if err := s.embed(ctx, policies); err != nil {
			return driving.IndexReport{}, err
		}
		report.Embedded = len(policies)
		report.Model = s.embeddingService.ModelName()
	} else {
		logger.Warn("No embedding service configured, building keyword-only index")
	}

	if err := s.store.ReplaceCorpus(ctx, policies); err != nil {
		return driving.IndexReport{}, fmt.Errorf("store corpus: %w", err)
	}
	logger.Info("Indexed %d policies (%d embedded)", report.Documents, report.Embedded)
	return report, nil
}

// embed fills in embeddings batch by batch. Batches run concurrently and
// write to disjoint slices of policies.
func (s *IndexService) embed(ctx context.Context, policies []domain.IndexedPolicy) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(policies); start += s.batchSize {
		end := min(start+s.batchSize, len(policies))
		batch := policies[start:end]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, p := range batch {
				texts[i] = p.Document.Content
			}
			vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
			if err != nil {
				return fmt.Errorf("embed batch at %d: %w", start, err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embed batch at %d: got %d vectors for %d texts", start, len(vectors), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
			logger.Debug("Embedded policies %d-%d", start, end-1)
			return nil
		})
	}
	return g.Wait()
}

// ValidateCorpus rejects documents without an ID or content and duplicate IDs.
func ValidateCorpus(docs []domain.PolicyDocument) error {
	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("%w: policy at position %d has no id", domain.ErrInvalidInput, i)
		}
		if strings.TrimSpace(d.Content) == "" {
			return fmt.Errorf("%w: policy %s has no content", domain.ErrInvalidInput, d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate policy id %s", domain.ErrInvalidInput, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
