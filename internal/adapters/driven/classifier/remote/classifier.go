// Package remote provides an intent classifier that calls a hosted
// fine-tuned sequence classification service over HTTP.
//
// The service accepts {"text": "..."} on POST /v1/classify and answers
// with {"intent": "...", "confidence": 0.0}.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/classifier"
	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IntentClassifier = (*Classifier)(nil)

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 5 * time.Second

// ErrMissingBaseURL is returned when no service URL is configured.
var ErrMissingBaseURL = errors.New("remote classifier: base URL is required")

// Config holds configuration for the remote classifier.
type Config struct {
	// BaseURL is the classifier service URL (required).
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout is the HTTP timeout (default: 5s).
	Timeout time.Duration
}

// Classifier calls the hosted classifier.
type Classifier struct {
	client *resty.Client
}

type classifyRequest struct {
	Text string `json:"text"`
}

// New creates a remote classifier.
func New(cfg Config) (*Classifier, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Classifier{client: client}, nil
}

// Classify posts the question and parses the verdict strictly.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{Text: text}).
		Post("/v1/classify")
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("send request: %w", err)
	}
	if resp.IsError() {
		return domain.ClassificationResult{}, fmt.Errorf("remote classifier error (status %d): %s",
			resp.StatusCode(), resp.String())
	}
	return classifier.ParseVerdict(resp.Body())
}
