package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/ai"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/corpus"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/keyword"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/metrics/prometheus"
	memstore "github.com/custodia-labs/fieldtriage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/storage/sqlite"
	remotetools "github.com/custodia-labs/fieldtriage/internal/adapters/driven/tools/remote"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/tools/static"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driving/cli"
	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/core/services"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// configEnv overrides the config file location when --config is not given.
const configEnv = "FIELDTRIAGE_CONFIG"

// buildServices loads the settings and wires every adapter.
func buildServices(ctx context.Context, configPath string) (*cli.Services, error) {
	if configPath == "" {
		configPath = os.Getenv(configEnv)
	}
	settingsStore, err := file.NewSettingsStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("settings store: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return nil, err
	}
	if settings.Logging.Verbose {
		logger.SetVerbose(true)
	}
	logger.SetJSON(settings.Logging.JSON)

	store, err := openStorage(settings.Storage)
	if err != nil {
		return nil, err
	}

	// An unreachable embedding service leaves the keyword signal on its own.
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, settings.Embedding)
	if err != nil {
		logger.Warn("Keyword-only retrieval: %v", err)
		embedder = nil
	}

	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(settingsStore.Path()), "prompts"), ai.DefaultPrompts())
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	classifier, err := ai.CreateClassifier(settings.Classifier, prompts)
	if err != nil {
		if embedder != nil {
			_ = embedder.Close()
		}
		_ = store.Close()
		return nil, err
	}

	metrics := prometheus.New()
	out := &cli.Services{
		Incidents:  store.incidents,
		Settings:   settingsStore,
		Current:    settings,
		CorpusPath: settings.Storage.CorpusPath,
		Metrics:    metrics.Handler(),
		Close: func() error {
			var errs []error
			if embedder != nil {
				errs = append(errs, embedder.Close())
			}
			errs = append(errs, store.Close())
			return errors.Join(errs...)
		},
	}

	if settings.Storage.CorpusPath != "" {
		out.Index = services.NewIndexService(
			corpus.NewFileSource(settings.Storage.CorpusPath),
			store.policies,
			embedder,
			settings.Embedding.BatchSize,
		)
	}
	if settings.Storage.Ephemeral && out.Index != nil {
		report, err := out.Index.Build(ctx)
		if err != nil {
			_ = out.Close()
			return nil, fmt.Errorf("index corpus: %w", err)
		}
		logger.Info("Indexed %d policies in memory", report.Documents)
	}

	deps := services.TriageDeps{
		Classifier: classifier,
		Tickets:    store.tickets,
		Metrics:    metrics,
	}
	deps.Orders, deps.Snippets = newTools(settings.Tools)

	retriever, err := loadRetriever(ctx, store.policies, embedder, settings)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	if retriever != nil {
		deps.Retriever = retriever
		out.Retrieval = retriever
		out.Catalog = retriever
	} else {
		logger.Warn("Policy index is empty, policy questions use the snippet tool")
	}

	out.Triage = services.NewTriageService(settings, deps)
	return out, nil
}

// storage groups the persistence adapters selected by the settings.
type storage struct {
	policies  driven.PolicyStore
	tickets   driven.TicketSink
	incidents cli.IncidentLister
	closer    func() error
}

func (s *storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func openStorage(cfg domain.StorageSettings) (*storage, error) {
	if cfg.Ephemeral {
		sink := memstore.NewTicketSink()
		return &storage{
			policies:  memstore.NewPolicyStore(),
			tickets:   sink,
			incidents: sink,
		}, nil
	}

	db, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened %s", db.Path())
	return &storage{
		policies:  db.PolicyStore(),
		tickets:   db.TicketSink(),
		incidents: db,
		closer:    db.Close,
	}, nil
}

// loadRetriever builds the in-memory indexes from the stored corpus.
// It returns nil when nothing has been indexed yet.
func loadRetriever(
	ctx context.Context,
	store driven.PolicyStore,
	embedder driven.EmbeddingService,
	settings domain.Settings,
) (*services.HybridRetriever, error) {
	policies, err := store.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load policy index: %w", err)
	}
	if len(policies) == 0 {
		return nil, nil
	}

	docs := make([]domain.PolicyDocument, len(policies))
	for i, p := range policies {
		docs[i] = p.Document
	}

	retriever := services.NewHybridRetriever(docs, keyword.New(docs), settings.Retrieval)
	retriever.SetTimeout(settings.Pipeline.DownstreamTimeout())

	if embedder == nil {
		return retriever, nil
	}
	vectors := memory.New(embedder.Dimensions())
	for _, p := range policies {
		if !p.HasEmbedding() {
			continue
		}
		if err := vectors.Add(ctx, p.Document.ID, p.Embedding); err != nil {
			logger.Warn("Vector signal disabled, rebuild the index for %s: %v", embedder.ModelName(), err)
			return retriever, nil
		}
	}
	if vectors.Len() > 0 {
		retriever.SetVectorSearch(vectors, embedder)
	}
	return retriever, nil
}

// newTools picks the HTTP collaborators when their URLs are configured and
// the static tables otherwise.
func newTools(cfg domain.ToolSettings) (driven.OrderStatusLookup, driven.PolicySnippetLookup) {
	var orders driven.OrderStatusLookup = static.NewOrders(nil)
	var snippets driven.PolicySnippetLookup = static.NewSnippets(nil)
	if cfg.OrderServiceURL == "" && cfg.PolicyServiceURL == "" {
		return orders, snippets
	}

	client := remotetools.New(remotetools.Config{
		OrderServiceURL:  cfg.OrderServiceURL,
		PolicyServiceURL: cfg.PolicyServiceURL,
		RateLimit:        cfg.RateLimit,
		Burst:            cfg.Burst,
	})
	if cfg.OrderServiceURL != "" {
		orders = client
	}
	if cfg.PolicyServiceURL != "" {
		snippets = client
	}
	return orders, snippets
}
