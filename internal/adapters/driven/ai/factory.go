// Package ai provides factory functions for creating the model-backed adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/classifier/llm"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/classifier/remote"
	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/classifier/rules"
	ollamaembed "github.com/custodia-labs/fieldtriage/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/fieldtriage/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// defaultAPIKeyEnv is read when a hosted provider names no variable.
const defaultAPIKeyEnv = "OPENAI_API_KEY"

// DefaultPrompts returns the built-in prompt templates keyed by name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptIntentClassifier: llm.SystemPrompt(),
	}
}

// CreateClassifier creates the intent classifier selected by settings.
// prompts may be nil; the LLM classifier then keeps its built-in prompt.
func CreateClassifier(settings domain.ClassifierSettings, prompts driven.PromptStore) (driven.IntentClassifier, error) {
	timeout := time.Duration(settings.TimeoutMS) * time.Millisecond

	switch settings.Provider {
	case domain.ClassifierRules:
		return rules.New(), nil

	case domain.ClassifierLLM:
		c, err := llm.New(llm.Config{
			APIKey:  apiKey(settings.APIKeyEnv, defaultAPIKeyEnv),
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		if prompts != nil {
			c.SetPromptStore(prompts)
		}
		return c, nil

	case domain.ClassifierRemote:
		return remote.New(remote.Config{
			BaseURL: settings.BaseURL,
			APIKey:  apiKey(settings.APIKeyEnv, ""),
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("classifier %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}

// CreateEmbeddingService creates the embedding service selected by settings.
// Returns nil if no provider is configured.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     apiKey(settings.APIKeyEnv, defaultAPIKeyEnv),
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// An unreachable service is closed and reported as ErrEmbeddingUnavailable.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'fieldtriage settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

func apiKey(envName, fallback string) string {
	if envName == "" {
		envName = fallback
	}
	if envName == "" {
		return ""
	}
	return os.Getenv(envName)
}
