package driven

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// IntentClassifier labels a question with an intent and a confidence.
//
// Implementations may return errors freely (timeouts, malformed model
// output, unavailable model); the core maps every failure to an unknown
// intent with zero confidence.
//
// Implementations may include:
//   - Keyword heuristics (offline)
//   - An OpenAI-compatible chat model returning JSON
//   - A hosted fine-tuned sequence classifier
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
}
