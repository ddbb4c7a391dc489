package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func resetSettingsFlags() {
	settingsBaseURL = ""
	settingsModel = ""
	settingsAPIKeyEnv = ""
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short key", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "sk-1234567890abcdef", expected: "sk-1...cdef"},
		{name: "Empty key", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestSettingsShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("FT_TEST_KEY", "sk-1234567890abcdef")

	store := services.Settings.(*mockSettingsStore)
	store.settings.Classifier = domain.ClassifierSettings{
		Provider: domain.ClassifierLLM, Model: "gpt-4o-mini", APIKeyEnv: "FT_TEST_KEY",
	}

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "File: /tmp/fieldtriage.toml")
	assert.Contains(t, out, "Confidence threshold: 0.85")
	assert.Contains(t, out, "Downstream timeout: 2s")
	assert.Contains(t, out, "Provider: llm")
	assert.Contains(t, out, "API Key (FT_TEST_KEY): sk-1...cdef")
	assert.Contains(t, out, "Provider: none (keyword retrieval only)")
}

func TestSettingsClassifierCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSettingsFlags()

	out, err := execute(t, "settings", "classifier", "remote", "--base-url", "http://classifier:8080")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved.")
	store := services.Settings.(*mockSettingsStore)
	assert.Equal(t, domain.ClassifierRemote, store.settings.Classifier.Provider)
	assert.Equal(t, "http://classifier:8080", store.settings.Classifier.BaseURL)
}

func TestSettingsClassifierCmd_Unknown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "classifier", "bert")

	require.Error(t, err)
	assert.Equal(t, 0, services.Settings.(*mockSettingsStore).saved)
}

func TestSettingsEmbeddingCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSettingsFlags()

	_, err := execute(t, "settings", "embedding", "ollama", "--model", "bge-m3")
	require.NoError(t, err)
	store := services.Settings.(*mockSettingsStore)
	assert.Equal(t, domain.AIProviderOllama, store.settings.Embedding.Provider)
	assert.Equal(t, "bge-m3", store.settings.Embedding.Model)

	_, err = execute(t, "settings", "embedding", "none")
	require.NoError(t, err)
	assert.False(t, store.settings.Embedding.IsConfigured())
}

func TestSettingsInitCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := services.Settings.(*mockSettingsStore)
	store.path = filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "settings", "init")

	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+store.path)
	assert.Equal(t, 1, store.saved)
}
