package domain

import (
	"errors"
	"fmt"
	"time"
)

// ClassifierProvider identifies the intent classifier backend.
type ClassifierProvider string

// Available classifier providers.
const (
	// ClassifierRules is the built-in keyword heuristic classifier.
	ClassifierRules ClassifierProvider = "rules"

	// ClassifierLLM asks an OpenAI-compatible chat model for a JSON verdict.
	ClassifierLLM ClassifierProvider = "llm"

	// ClassifierRemote calls a hosted fine-tuned classifier service.
	ClassifierRemote ClassifierProvider = "remote"
)

// IsValid returns true if the classifier provider is recognised.
func (p ClassifierProvider) IsValid() bool {
	switch p {
	case ClassifierRules, ClassifierLLM, ClassifierRemote:
		return true
	default:
		return false
	}
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables the vector signal.
	AIProviderNone AIProvider = ""

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderNone, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// PipelineSettings holds the gates of the orchestration state machine.
type PipelineSettings struct {
	// ConfidenceThreshold is the minimum classifier confidence for automation.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`

	// SensitiveTerms block a question outright when present.
	SensitiveTerms []string `toml:"sensitive_terms"`

	// HedgingTerms turn an automated answer into a human fallback.
	HedgingTerms []string `toml:"hedging_terms"`

	// DownstreamTimeoutMS bounds every external call.
	DownstreamTimeoutMS int `toml:"downstream_timeout_ms"`
}

// DownstreamTimeout returns the per-call timeout.
func (p PipelineSettings) DownstreamTimeout() time.Duration {
	return time.Duration(p.DownstreamTimeoutMS) * time.Millisecond
}

// RetrievalSettings holds hybrid retrieval parameters.
type RetrievalSettings struct {
	TopK                int     `toml:"top_k"`
	ScoreThreshold      float64 `toml:"score_threshold"`
	RRFK                int     `toml:"rrf_k"`
	CandidateMultiplier int     `toml:"candidate_multiplier"`
}

// Options converts the settings into per-call retrieval options.
func (r RetrievalSettings) Options(filter MetadataFilter) RetrievalOptions {
	return RetrievalOptions{
		Filter:         filter,
		TopK:           r.TopK,
		ScoreThreshold: r.ScoreThreshold,
	}
}

// ClassifierSettings configures the intent classifier backend.
type ClassifierSettings struct {
	Provider  ClassifierProvider `toml:"provider"`
	BaseURL   string             `toml:"base_url"`
	Model     string             `toml:"model"`
	APIKeyEnv string             `toml:"api_key_env"`
	TimeoutMS int                `toml:"timeout_ms"`
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider   AIProvider `toml:"provider"`
	BaseURL    string     `toml:"base_url"`
	Model      string     `toml:"model"`
	APIKeyEnv  string     `toml:"api_key_env"`
	Dimensions int        `toml:"dimensions"`
	BatchSize  int        `toml:"batch_size"`
}

// IsConfigured returns true if an embedding provider is selected.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider != AIProviderNone
}

// ToolSettings configures the order and policy collaborators.
// Empty URLs select the built-in static collaborators.
type ToolSettings struct {
	OrderServiceURL  string  `toml:"order_service_url"`
	PolicyServiceURL string  `toml:"policy_service_url"`
	RateLimit        float64 `toml:"rate_limit"`
	Burst            int     `toml:"burst"`
}

// StorageSettings configures durable storage.
type StorageSettings struct {
	// DataDir holds the index database. Empty means ~/.fieldtriage/data.
	DataDir string `toml:"data_dir"`

	// CorpusPath is the policy corpus consumed by the index build.
	CorpusPath string `toml:"corpus_path"`

	// Ephemeral keeps the index and incidents in memory. The corpus is
	// indexed at startup and nothing is written to DataDir.
	Ephemeral bool `toml:"ephemeral"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Verbose bool `toml:"verbose"`
	JSON    bool `toml:"json"`
}

// Settings is the complete application configuration.
type Settings struct {
	Pipeline   PipelineSettings   `toml:"pipeline"`
	Retrieval  RetrievalSettings  `toml:"retrieval"`
	Classifier ClassifierSettings `toml:"classifier"`
	Embedding  EmbeddingSettings  `toml:"embedding"`
	Tools      ToolSettings       `toml:"tools"`
	Storage    StorageSettings    `toml:"storage"`
	Logging    LoggingSettings    `toml:"logging"`
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		Pipeline: PipelineSettings{
			ConfidenceThreshold: 0.85,
			SensitiveTerms: []string{
				"赔偿", "起诉", "诉讼", "法律", "隐私", "个人信息", "罚款", "投诉升级", "工商局",
			},
			HedgingTerms:        []string{"可能", "大概", "建议", "也许", "估计"},
			DownstreamTimeoutMS: 2000,
		},
		Retrieval: RetrievalSettings{
			TopK:                1,
			ScoreThreshold:      0.75,
			RRFK:                60,
			CandidateMultiplier: 3,
		},
		Classifier: ClassifierSettings{
			Provider:  ClassifierRules,
			TimeoutMS: 2000,
		},
		Embedding: EmbeddingSettings{
			BatchSize: 16,
		},
		Tools: ToolSettings{
			RateLimit: 50,
			Burst:     10,
		},
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	var errs []error
	if s.Pipeline.ConfidenceThreshold < 0 || s.Pipeline.ConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("pipeline.confidence_threshold must be within [0,1], got %v",
			s.Pipeline.ConfidenceThreshold))
	}
	if s.Pipeline.DownstreamTimeoutMS <= 0 {
		errs = append(errs, errors.New("pipeline.downstream_timeout_ms must be positive"))
	}
	if s.Retrieval.TopK <= 0 {
		errs = append(errs, errors.New("retrieval.top_k must be positive"))
	}
	if s.Retrieval.RRFK <= 0 {
		errs = append(errs, errors.New("retrieval.rrf_k must be positive"))
	}
	if s.Retrieval.CandidateMultiplier <= 0 {
		errs = append(errs, errors.New("retrieval.candidate_multiplier must be positive"))
	}
	if !s.Classifier.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("classifier.provider %q: %w", s.Classifier.Provider, ErrUnsupportedType))
	}
	if !s.Embedding.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("embedding.provider %q: %w", s.Embedding.Provider, ErrUnsupportedType))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
