package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func TestClassifierAdapter_PassesThroughValidResult(t *testing.T) {
	mock := &mockClassifier{result: domain.ClassificationResult{Intent: domain.IntentPolicyQuery, Confidence: 0.93}}
	adapter := NewClassifierAdapter(mock, time.Second)

	res, err := adapter.Evaluate(context.Background(), "台风停运吗")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentPolicyQuery, res.Intent)
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)
	assert.Equal(t, "台风停运吗", mock.seen)
}

func TestClassifierAdapter_FailuresBecomeUnclassified(t *testing.T) {
	tests := []struct {
		name string
		mock *mockClassifier
	}{
		{"error", &mockClassifier{err: errors.New("model unavailable")}},
		{"panic", &mockClassifier{panics: true}},
		{"timeout", &mockClassifier{delay: time.Second, result: domain.ClassificationResult{Intent: domain.IntentOther, Confidence: 1}}},
		{"unknown label", &mockClassifier{result: domain.ClassificationResult{Intent: "refund_request", Confidence: 0.99}}},
		{"explicit unknown", &mockClassifier{result: domain.ClassificationResult{Intent: domain.IntentUnknown, Confidence: 0.99}}},
		{"confidence above one", &mockClassifier{result: domain.ClassificationResult{Intent: domain.IntentOther, Confidence: 1.2}}},
		{"negative confidence", &mockClassifier{result: domain.ClassificationResult{Intent: domain.IntentOther, Confidence: -0.1}}},
		{"NaN confidence", &mockClassifier{result: domain.ClassificationResult{Intent: domain.IntentOther, Confidence: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewClassifierAdapter(tt.mock, 20*time.Millisecond)

			assert.Equal(t, domain.Unclassified, adapter.Classify(context.Background(), "text"))

			_, err := adapter.Evaluate(context.Background(), "text")
			assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
		})
	}
}

func TestClassifierAdapter_TimeoutIsDownstreamTimeout(t *testing.T) {
	adapter := NewClassifierAdapter(&mockClassifier{delay: time.Second}, 10*time.Millisecond)

	_, err := adapter.Evaluate(context.Background(), "text")

	assert.ErrorIs(t, err, domain.ErrDownstreamTimeout)
}

func TestClassifierAdapter_NilClassifier(t *testing.T) {
	adapter := NewClassifierAdapter(nil, 0)

	assert.Equal(t, domain.Unclassified, adapter.Classify(context.Background(), "text"))
}
