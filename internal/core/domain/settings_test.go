package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Validate())
	assert.InDelta(t, 0.85, s.Pipeline.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 2*time.Second, s.Pipeline.DownstreamTimeout())
	assert.Equal(t, 60, s.Retrieval.RRFK)
	assert.Equal(t, ClassifierRules, s.Classifier.Provider)
	assert.False(t, s.Embedding.IsConfigured())
	assert.Contains(t, s.Pipeline.HedgingTerms, "可能")
	assert.Contains(t, s.Pipeline.SensitiveTerms, "起诉")
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"threshold above one", func(s *Settings) { s.Pipeline.ConfidenceThreshold = 1.5 }},
		{"zero timeout", func(s *Settings) { s.Pipeline.DownstreamTimeoutMS = 0 }},
		{"zero top_k", func(s *Settings) { s.Retrieval.TopK = 0 }},
		{"zero rrf_k", func(s *Settings) { s.Retrieval.RRFK = 0 }},
		{"zero multiplier", func(s *Settings) { s.Retrieval.CandidateMultiplier = 0 }},
		{"bad classifier", func(s *Settings) { s.Classifier.Provider = "bert" }},
		{"bad embedding", func(s *Settings) { s.Embedding.Provider = "cohere" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)

			err := s.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderNone.IsValid())
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProvider("anthropic").IsValid())
}
