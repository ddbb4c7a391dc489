package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/classifier"
	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClassifier_Classify(t *testing.T) {
	server := chatServer(t, `{"intent":"damage_report","confidence":0.97}`)
	defer server.Close()

	c, err := New(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	res, err := c.Classify(context.Background(), "箱子压坏了")

	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationResult{Intent: domain.IntentDamageReport, Confidence: 0.97}, res)
}

func TestClassifier_MalformedContentFailsClosed(t *testing.T) {
	server := chatServer(t, `{'intent': 'damage_report', 'confidence': 0.97}`)
	defer server.Close()

	c, err := New(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "箱子压坏了")

	assert.ErrorIs(t, err, classifier.ErrMalformedVerdict)
}

func TestClassifier_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, err := New(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSystemPrompt_ListsEveryIntent(t *testing.T) {
	prompt := SystemPrompt()
	for _, i := range domain.Intents() {
		assert.Contains(t, prompt, i.String())
	}
}

type stubPrompts struct {
	prompt string
	err    error
}

func (s stubPrompts) Load(string) (string, error) { return s.prompt, s.err }
func (s stubPrompts) Reload()                     {}

func TestClassifier_UsesPromptStore(t *testing.T) {
	var gotSystem string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotSystem = req.Messages[0].Content
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"intent\":\"other\",\"confidence\":0.4}"}}]}`))
	}))
	defer server.Close()

	c, err := New(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	c.SetPromptStore(stubPrompts{prompt: "custom"})
	_, err = c.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "custom", gotSystem)

	c.SetPromptStore(stubPrompts{err: assert.AnError})
	_, err = c.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, SystemPrompt(), gotSystem)
}
