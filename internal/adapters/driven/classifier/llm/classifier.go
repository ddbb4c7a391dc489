// Package llm provides an intent classifier backed by an OpenAI-compatible
// chat completions API. The model is asked for a JSON verdict which is
// parsed strictly; anything else is an error.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driven/classifier"
	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.IntentClassifier = (*Classifier)(nil)
	_ driven.PromptStoreAware = (*Classifier)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 10 * time.Second
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("llm classifier: API key is required")

// Config holds configuration for the chat model classifier.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the HTTP timeout (default: 10s). The pipeline applies
	// its own, usually shorter, per-call deadline on top.
	Timeout time.Duration
}

// Classifier asks a chat model for an intent verdict.
type Classifier struct {
	client  *resty.Client
	model   string
	prompt  string
	prompts driven.PromptStore
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// New creates a chat model classifier.
func New(cfg Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Classifier{
		client: client,
		model:  cfg.Model,
		prompt: SystemPrompt(),
	}, nil
}

// SystemPrompt returns the instruction that constrains the model to the
// intent enumeration and the verdict format.
func SystemPrompt() string {
	labels := make([]string, 0, len(domain.Intents()))
	for _, i := range domain.Intents() {
		labels = append(labels, i.String())
	}
	return "你是物流一线人员问题的意图分类器。" +
		"只能从以下标签中选择一个：" + strings.Join(labels, ", ") + "。" +
		`只输出一个 JSON 对象，格式为 {"intent": "<标签>", "confidence": <0到1之间的数字>}，不要输出其他内容。`
}

// SetPromptStore lets users override the system prompt on disk.
func (c *Classifier) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

func (c *Classifier) systemPrompt() string {
	if c.prompts == nil {
		return c.prompt
	}
	prompt, err := c.prompts.Load(driven.PromptIntentClassifier)
	if err != nil || prompt == "" {
		return c.prompt
	}
	return prompt
}

// Classify sends the question and parses the verdict.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: text},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("send request: %w", err)
	}
	if resp.IsError() {
		return domain.ClassificationResult{}, fmt.Errorf("llm classifier error (status %d): %s",
			resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return domain.ClassificationResult{}, fmt.Errorf("%w: no choices returned", classifier.ErrMalformedVerdict)
	}

	return classifier.ParseVerdict([]byte(out.Choices[0].Message.Content))
}
