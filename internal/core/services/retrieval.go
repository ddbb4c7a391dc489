package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// Ensure HybridRetriever implements the interfaces.
var (
	_ driving.RetrievalService = (*HybridRetriever)(nil)
	_ driving.PolicyCatalog    = (*HybridRetriever)(nil)
)

// HybridRetriever fuses vector and keyword evidence over the policy corpus.
// It is safe for concurrent use; the corpus and indexes are read-only.
type HybridRetriever struct {
	docs             map[string]domain.PolicyDocument
	keywordIndex     driven.KeywordIndex
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	rrfK             int
	multiplier       int
	timeout          time.Duration
}

// NewHybridRetriever creates a retriever over the given corpus.
// The vector signal is disabled until SetVectorSearch is called.
func NewHybridRetriever(
	docs []domain.PolicyDocument,
	keywordIndex driven.KeywordIndex,
	settings domain.RetrievalSettings,
) *HybridRetriever {
	byID := make(map[string]domain.PolicyDocument, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	multiplier := settings.CandidateMultiplier
	if multiplier <= 0 {
		multiplier = 3
	}
	return &HybridRetriever{
		docs:         byID,
		keywordIndex: keywordIndex,
		rrfK:         settings.RRFK,
		multiplier:   multiplier,
		timeout:      defaultDownstreamTimeout,
	}
}

// SetVectorSearch enables the vector signal.
// Both arguments must be non-nil for the signal to run.
func (r *HybridRetriever) SetVectorSearch(vectorIndex driven.VectorIndex, embeddingService driven.EmbeddingService) {
	r.vectorIndex = vectorIndex
	r.embeddingService = embeddingService
}

// SetTimeout bounds each signal's downstream calls.
func (r *HybridRetriever) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// Retrieve runs both signals concurrently and fuses their rankings.
// If one signal fails the other is used alone; if both fail an error
// wrapping both is returned.
func (r *HybridRetriever) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) ([]domain.FusedResult, error) {
	logger.Section("Policy Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.FusedResult{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = 1
	}
	candidates := topK * r.multiplier
	logger.Debug("TopK: %d, candidates per signal: %d, region=%q, client_version=%q",
		topK, candidates, opts.Filter.Region, opts.Filter.ClientVersion)

	var keywordResults, vectorResults []domain.RetrievalCandidate
	var keywordErr, vectorErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		keywordResults, keywordErr = r.keywordSearch(ctx, query, candidates, opts.Filter)
	}()

	go func() {
		defer wg.Done()
		vectorResults, vectorErr = r.vectorSearch(ctx, query, candidates, opts)
	}()

	wg.Wait()

	var fused []domain.FusedResult
	switch {
	case keywordErr != nil && vectorErr != nil:
		logger.Warn("Hybrid retrieval: both keyword and vector signals failed")
		return nil, fmt.Errorf("hybrid retrieval: keyword=%w, vector=%w", keywordErr, vectorErr)
	case keywordErr != nil:
		logger.Warn("Hybrid retrieval: keyword signal failed (%v), using vector results only", keywordErr)
		fused = ReciprocalRankFusion(r.rrfK, vectorResults)
	case vectorErr != nil:
		logger.Debug("Hybrid retrieval: vector signal unavailable (%v), using keyword results only", vectorErr)
		fused = ReciprocalRankFusion(r.rrfK, keywordResults)
	default:
		logger.Debug("Hybrid retrieval: merging %d keyword + %d vector candidates with RRF",
			len(keywordResults), len(vectorResults))
		fused = ReciprocalRankFusion(r.rrfK, vectorResults, keywordResults)
	}

	if len(fused) > topK {
		fused = fused[:topK]
	}
	logger.Info("Retrieved %d policies", len(fused))
	return fused, nil
}

// keywordSearch scores every document and keeps filtered positive hits.
func (r *HybridRetriever) keywordSearch(
	ctx context.Context, query string, limit int, filter domain.MetadataFilter,
) ([]domain.RetrievalCandidate, error) {
	if r.keywordIndex == nil {
		return nil, domain.ErrKeywordIndexUnavailable
	}

	// The filter runs before truncation, so ask for every document.
	hits, err := callBounded(ctx, r.timeout, func(ctx context.Context) ([]driven.KeywordHit, error) {
		return r.keywordIndex.Search(ctx, query, r.keywordIndex.Len())
	})
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	logger.Debug("Keyword search: %d hits", len(hits))

	results := make([]domain.RetrievalCandidate, 0, limit)
	for _, hit := range hits {
		if hit.Score <= 0 {
			continue
		}
		doc, ok := r.docs[hit.DocumentID]
		if !ok || !MatchesFilter(doc.Metadata, filter) {
			continue
		}
		results = append(results, candidateFor(doc, hit.Score, domain.SignalKeyword))
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// vectorSearch embeds the query and keeps filtered neighbours above the threshold.
func (r *HybridRetriever) vectorSearch(
	ctx context.Context, query string, limit int, opts domain.RetrievalOptions,
) ([]domain.RetrievalCandidate, error) {
	if r.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if r.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := callBounded(ctx, r.timeout, func(ctx context.Context) ([]float32, error) {
		return r.embeddingService.Embed(ctx, query)
	})
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	hits, err := callBounded(ctx, r.timeout, func(ctx context.Context) ([]driven.VectorHit, error) {
		return r.vectorIndex.Search(ctx, embedding, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	results := make([]domain.RetrievalCandidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < opts.ScoreThreshold {
			continue
		}
		doc, ok := r.docs[hit.DocumentID]
		if !ok || !MatchesFilter(doc.Metadata, opts.Filter) {
			continue
		}
		results = append(results, candidateFor(doc, hit.Similarity, domain.SignalVector))
	}
	return results, nil
}

func candidateFor(doc domain.PolicyDocument, score float64, signal domain.Signal) domain.RetrievalCandidate {
	return domain.RetrievalCandidate{
		DocumentID: doc.ID,
		Text:       doc.Content,
		DeepLink:   doc.DeepLink,
		Score:      score,
		Signal:     signal,
	}
}

// Document returns a corpus document by ID.
func (r *HybridRetriever) Document(id string) (domain.PolicyDocument, bool) {
	doc, ok := r.docs[id]
	return doc, ok
}

// Documents returns every corpus document ordered by ID.
func (r *HybridRetriever) Documents() []domain.PolicyDocument {
	docs := make([]domain.PolicyDocument, 0, len(r.docs))
	for _, d := range r.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}
