// Package classifier holds what the intent classifier adapters share: the
// strict parser for the JSON verdict returned by model-backed classifiers.
//
// Implementations live in sub-packages:
//   - rules: offline keyword heuristics
//   - llm: OpenAI-compatible chat model
//   - remote: hosted fine-tuned classifier service
package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// ErrMalformedVerdict is returned for any payload that is not exactly a
// verdict object with a known intent and a confidence in [0,1].
var ErrMalformedVerdict = errors.New("malformed classifier verdict")

// verdict is the wire shape. Pointers distinguish missing fields from zero values.
type verdict struct {
	Intent     *string  `json:"intent"`
	Confidence *float64 `json:"confidence"`
}

// ParseVerdict strictly decodes {"intent": string, "confidence": number}.
// Unknown fields, trailing data, missing fields, labels outside the intent
// enumeration and out-of-range confidences are all rejected.
func ParseVerdict(payload []byte) (domain.ClassificationResult, error) {
	payload = bytes.TrimSpace(payload)

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var v verdict
	if err := dec.Decode(&v); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %w", ErrMalformedVerdict, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.ClassificationResult{}, fmt.Errorf("%w: trailing data", ErrMalformedVerdict)
	}
	if v.Intent == nil || v.Confidence == nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: intent and confidence are required", ErrMalformedVerdict)
	}

	intent := domain.Intent(strings.ToLower(strings.TrimSpace(*v.Intent)))
	if !intent.IsValid() {
		return domain.ClassificationResult{}, fmt.Errorf("%w: unknown intent %q", ErrMalformedVerdict, *v.Intent)
	}
	c := *v.Confidence
	if math.IsNaN(c) || c < 0 || c > 1 {
		return domain.ClassificationResult{}, fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedVerdict, c)
	}

	return domain.ClassificationResult{Intent: intent, Confidence: c}, nil
}
