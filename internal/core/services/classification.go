package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// ClassifierAdapter turns any classifier failure into an unknown intent
// with zero confidence. The wrapped classifier is shared read-only.
type ClassifierAdapter struct {
	classifier driven.IntentClassifier
	timeout    time.Duration
}

// NewClassifierAdapter wraps a classifier. A nil classifier always
// yields the unclassified result.
func NewClassifierAdapter(classifier driven.IntentClassifier, timeout time.Duration) *ClassifierAdapter {
	if timeout <= 0 {
		timeout = defaultDownstreamTimeout
	}
	return &ClassifierAdapter{classifier: classifier, timeout: timeout}
}

// Classify labels the text. It never fails.
func (a *ClassifierAdapter) Classify(ctx context.Context, text string) domain.ClassificationResult {
	res, _ := a.Evaluate(ctx, text)
	return res
}

// Evaluate labels the text and also returns why the result was replaced
// by the unclassified one. The result is always usable.
func (a *ClassifierAdapter) Evaluate(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if a.classifier == nil {
		return domain.Unclassified, fmt.Errorf("%w: no classifier configured", domain.ErrClassifierUnavailable)
	}

	res, err := callBounded(ctx, a.timeout, func(ctx context.Context) (domain.ClassificationResult, error) {
		return a.classifier.Classify(ctx, text)
	})
	if err != nil {
		logger.Warn("Classifier failed: %v", err)
		return domain.Unclassified, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	if err := validateClassification(res); err != nil {
		logger.Warn("Classifier returned an invalid result: %v", err)
		return domain.Unclassified, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	logger.Debug("Classified as %s (%.2f)", res.Intent, res.Confidence)
	return res, nil
}

func validateClassification(res domain.ClassificationResult) error {
	if !res.Intent.IsValid() {
		return fmt.Errorf("%w: intent %q is not enumerated", domain.ErrInvalidInput, res.Intent)
	}
	if math.IsNaN(res.Confidence) || res.Confidence < 0 || res.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", domain.ErrInvalidInput, res.Confidence)
	}
	return nil
}
