package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func TestParseVerdict(t *testing.T) {
	res, err := ParseVerdict([]byte(` {"intent": "Policy_Query", "confidence": 0.91} `))

	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationResult{Intent: domain.IntentPolicyQuery, Confidence: 0.91}, res)
}

func TestParseVerdict_FailsClosed(t *testing.T) {
	payloads := map[string]string{
		"not json":          `intent=policy_query`,
		"python dict":       `{'intent': 'policy_query', 'confidence': 0.9}`,
		"code":              `__import__('os').system('rm -rf /')`,
		"missing intent":    `{"confidence": 0.9}`,
		"missing conf":      `{"intent": "other"}`,
		"string confidence": `{"intent": "other", "confidence": "0.9"}`,
		"numeric intent":    `{"intent": 3, "confidence": 0.9}`,
		"unknown field":     `{"intent": "other", "confidence": 0.9, "reason": "x"}`,
		"unknown intent":    `{"intent": "refund", "confidence": 0.9}`,
		"unknown label":     `{"intent": "unknown", "confidence": 0.9}`,
		"above one":         `{"intent": "other", "confidence": 1.5}`,
		"negative":          `{"intent": "other", "confidence": -0.2}`,
		"trailing":          `{"intent": "other", "confidence": 0.9} {"x":1}`,
		"array":             `[{"intent": "other", "confidence": 0.9}]`,
		"empty":             ``,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			_, err := ParseVerdict([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformedVerdict)
		})
	}
}
