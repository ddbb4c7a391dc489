package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockKeywordIndex implements driven.KeywordIndex for testing.
type mockKeywordIndex struct {
	hits      []driven.KeywordHit
	searchErr error
}

func (m *mockKeywordIndex) Search(_ context.Context, _ string, limit int) ([]driven.KeywordHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:limit], nil
}

func (m *mockKeywordIndex) Len() int {
	return len(m.hits)
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error
	addErr    error
	lastK     int
}

func (m *mockVectorIndex) Add(_ context.Context, _ string, _ []float32) error {
	return m.addErr
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	return len(m.hits)
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	batches   int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{float32(len([]rune(texts[i]))), 1}
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return 2
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockClassifier implements driven.IntentClassifier for testing.
type mockClassifier struct {
	result domain.ClassificationResult
	err    error
	delay  time.Duration
	panics bool
	calls  int
	seen   string
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	m.calls++
	m.seen = text
	if m.panics {
		panic("model exploded")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return domain.ClassificationResult{}, ctx.Err()
		}
	}
	return m.result, m.err
}

// mockRetriever implements driving.RetrievalService for testing.
type mockRetriever struct {
	results []domain.FusedResult
	err     error
	calls   int
	opts    domain.RetrievalOptions
}

func (m *mockRetriever) Retrieve(
	_ context.Context, _ string, opts domain.RetrievalOptions,
) ([]domain.FusedResult, error) {
	m.calls++
	m.opts = opts
	return m.results, m.err
}

// mockOrders implements driven.OrderStatusLookup for testing.
type mockOrders struct {
	statuses map[string]domain.OrderStatus
	err      error
	block    bool
	calls    int
}

func (m *mockOrders) OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	if s, ok := m.statuses[orderID]; ok {
		return s, nil
	}
	return domain.OrderNotFound, nil
}

// mockSnippets implements driven.PolicySnippetLookup for testing.
type mockSnippets struct {
	snippets map[string]string
	err      error
	topic    string
}

func (m *mockSnippets) PolicySnippet(_ context.Context, topic string) (string, error) {
	m.topic = topic
	if m.err != nil {
		return "", m.err
	}
	if s, ok := m.snippets[topic]; ok {
		return s, nil
	}
	return noPolicySnippet, nil
}

// mockTickets implements driven.TicketSink for testing.
type mockTickets struct {
	snapshots []domain.IncidentSnapshot
	id        string
	err       error
}

func (m *mockTickets) CreateIncident(_ context.Context, s domain.IncidentSnapshot) (string, error) {
	m.snapshots = append(m.snapshots, s)
	if m.err != nil {
		return "", m.err
	}
	return m.id, nil
}

// mockCorpus implements driven.CorpusSource for testing.
type mockCorpus struct {
	docs []domain.PolicyDocument
	err  error
}

func (m *mockCorpus) Load(_ context.Context) ([]domain.PolicyDocument, error) {
	return m.docs, m.err
}

// mockPolicyStore implements driven.PolicyStore for testing.
type mockPolicyStore struct {
	policies []domain.IndexedPolicy
	err      error
}

func (m *mockPolicyStore) ReplaceCorpus(_ context.Context, policies []domain.IndexedPolicy) error {
	if m.err != nil {
		return m.err
	}
	m.policies = append([]domain.IndexedPolicy(nil), policies...)
	return nil
}

func (m *mockPolicyStore) LoadCorpus(_ context.Context) ([]domain.IndexedPolicy, error) {
	out := append([]domain.IndexedPolicy(nil), m.policies...)
	sort.Slice(out, func(i, j int) bool { return out[i].Document.ID < out[j].Document.ID })
	return out, m.err
}

// recordingMetrics implements driven.Metrics for testing.
type recordingMetrics struct {
	mu        sync.Mutex
	intents   []domain.Intent
	routes    []domain.Category
	lookups   []driven.PolicyOutcome
	tools     map[string]int
	fallbacks []domain.FallbackReason
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{tools: make(map[string]int)}
}

func (m *recordingMetrics) IntentClassified(i domain.Intent, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents = append(m.intents, i)
}

func (m *recordingMetrics) Routed(c domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, c)
}

func (m *recordingMetrics) PolicyLookup(o driven.PolicyOutcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, o)
}

func (m *recordingMetrics) ToolCall(tool string, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools[tool]++
}

func (m *recordingMetrics) HumanFallback(r domain.FallbackReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, r)
}

// testCorpus is a small policy corpus shared by retrieval tests.
func testCorpus() []domain.PolicyDocument {
	return []domain.PolicyDocument{
		{
			ID:       "P001",
			Content:  "生鲜商品破损请在 App【我的-售后】上传照片申请补货",
			DeepLink: "app://policy/P001",
		},
		{
			ID:       "P002",
			Content:  "台风天气停运以区域通知为准",
			Metadata: domain.PolicyMetadata{Region: "GD"},
		},
		{
			ID:       "P003",
			Content:  "每日 18:00 结算前日佣金",
			Metadata: domain.PolicyMetadata{MinClientVersion: "3.2.0"},
		},
	}
}
