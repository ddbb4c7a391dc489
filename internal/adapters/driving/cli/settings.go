package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure pipeline gates, the classifier backend, embeddings,
and other options. Settings are stored in a TOML file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInit,
}

var settingsClassifierCmd = &cobra.Command{
	Use:   "classifier [rules|llm|remote]",
	Short: "Select the intent classifier backend",
	Long: `Select the intent classifier backend.

Available backends:
  rules   - Built-in keyword heuristics (no setup required)
  llm     - OpenAI-compatible chat model returning a JSON verdict
  remote  - Hosted fine-tuned classifier service`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsClassifier,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding [none|ollama|openai]",
	Short: "Select the embedding provider",
	Long:  `Select the embedding provider used by the vector retrieval signal.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsEmbedding,
}

var (
	settingsBaseURL   string
	settingsModel     string
	settingsAPIKeyEnv string
)

func init() {
	for _, c := range []*cobra.Command{settingsClassifierCmd, settingsEmbeddingCmd} {
		c.Flags().StringVar(&settingsBaseURL, "base-url", "", "service base URL")
		c.Flags().StringVar(&settingsModel, "model", "", "model name")
		c.Flags().StringVar(&settingsAPIKeyEnv, "api-key-env", "", "environment variable holding the API key")
	}
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	settingsCmd.AddCommand(settingsClassifierCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return errNotConfigured("settings store")
	}

	settings, err := services.Settings.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", services.Settings.Path())
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Confidence threshold: %.2f\n", settings.Pipeline.ConfidenceThreshold)
	cmd.Printf("  Sensitive terms: %s\n", strings.Join(settings.Pipeline.SensitiveTerms, ", "))
	cmd.Printf("  Hedging terms: %s\n", strings.Join(settings.Pipeline.HedgingTerms, ", "))
	cmd.Printf("  Downstream timeout: %s\n", settings.Pipeline.DownstreamTimeout())
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Score threshold: %.2f\n", settings.Retrieval.ScoreThreshold)
	cmd.Printf("  RRF k: %d\n", settings.Retrieval.RRFK)
	cmd.Println()

	cmd.Println("[Classifier]")
	cmd.Printf("  Provider: %s\n", settings.Classifier.Provider)
	if settings.Classifier.Provider != domain.ClassifierRules {
		cmd.Printf("  Base URL: %s\n", settings.Classifier.BaseURL)
		cmd.Printf("  Model: %s\n", settings.Classifier.Model)
		printAPIKey(cmd, settings.Classifier.APIKeyEnv)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	if settings.Embedding.IsConfigured() {
		cmd.Printf("  Provider: %s\n", settings.Embedding.Provider)
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
		if settings.Embedding.Provider.RequiresAPIKey() {
			printAPIKey(cmd, settings.Embedding.APIKeyEnv)
		}
	} else {
		cmd.Println("  Provider: none (keyword retrieval only)")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	if settings.Storage.Ephemeral {
		cmd.Println("  Data dir: none (in-memory)")
	} else {
		cmd.Printf("  Data dir: %s\n", valueOr(settings.Storage.DataDir, "(default)"))
	}
	cmd.Printf("  Corpus: %s\n", valueOr(settings.Storage.CorpusPath, "(not set)"))

	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return errNotConfigured("settings store")
	}
	if _, err := os.Stat(services.Settings.Path()); err == nil {
		return fmt.Errorf("%s already exists", services.Settings.Path())
	}
	if err := services.Settings.Save(domain.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Wrote %s\n", services.Settings.Path())
	return nil
}

func runSettingsClassifier(cmd *cobra.Command, args []string) error {
	provider := domain.ClassifierProvider(args[0])
	if !provider.IsValid() {
		return fmt.Errorf("unknown classifier %q", args[0])
	}
	return updateSettings(cmd, func(s *domain.Settings) {
		s.Classifier.Provider = provider
		applyString(&s.Classifier.BaseURL, settingsBaseURL)
		applyString(&s.Classifier.Model, settingsModel)
		applyString(&s.Classifier.APIKeyEnv, settingsAPIKeyEnv)
	})
}

func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	name := args[0]
	if name == "none" {
		name = ""
	}
	provider := domain.AIProvider(name)
	if !provider.IsValid() {
		return fmt.Errorf("unknown embedding provider %q", args[0])
	}
	return updateSettings(cmd, func(s *domain.Settings) {
		s.Embedding.Provider = provider
		applyString(&s.Embedding.BaseURL, settingsBaseURL)
		applyString(&s.Embedding.Model, settingsModel)
		applyString(&s.Embedding.APIKeyEnv, settingsAPIKeyEnv)
	})
}

func updateSettings(cmd *cobra.Command, mutate func(*domain.Settings)) error {
	if services == nil || services.Settings == nil {
		return errNotConfigured("settings store")
	}
	settings, err := services.Settings.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	mutate(&settings)
	if err := services.Settings.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

func applyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func printAPIKey(cmd *cobra.Command, envName string) {
	if envName == "" {
		cmd.Println("  API Key: (no variable configured)")
		return
	}
	if key := os.Getenv(envName); key != "" {
		cmd.Printf("  API Key (%s): %s\n", envName, maskAPIKey(key))
		return
	}
	cmd.Printf("  API Key (%s): (not set)\n", envName)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// maskAPIKey masks an API key for display, showing only the first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
