// Package remote provides HTTP clients for the order and policy services.
//
// Both clients share a token bucket so a burst of triage requests cannot
// overrun the collaborators.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.OrderStatusLookup   = (*Client)(nil)
	_ driven.PolicySnippetLookup = (*Client)(nil)
)

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 5 * time.Second

// Config holds configuration for the collaborator clients.
type Config struct {
	// OrderServiceURL is the order service base URL.
	OrderServiceURL string

	// PolicyServiceURL is the policy service base URL.
	PolicyServiceURL string

	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64

	// Burst is the token bucket size (default: 1).
	Burst int

	// Timeout is the HTTP timeout (default: 5s).
	Timeout time.Duration
}

// Client calls the order and policy services.
type Client struct {
	orders   *resty.Client
	policies *resty.Client
	limiter  *rate.Limiter
}

type orderResponse struct {
	OrderID string             `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
}

type snippetResponse struct {
	Snippet string `json:"snippet"`
}

// New creates a collaborator client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		orders:   newRestClient(cfg.OrderServiceURL, cfg.Timeout),
		policies: newRestClient(cfg.PolicyServiceURL, cfg.Timeout),
		limiter:  rate.NewLimiter(limit, cfg.Burst),
	}
}

func newRestClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// OrderStatus calls GET /orders/{id}. A 404 means the order does not exist.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var out orderResponse
	resp, err := c.orders.R().
		SetContext(ctx).
		SetPathParam("id", orderID).
		SetResult(&out).
		Get("/orders/{id}")
	if err != nil {
		return "", fmt.Errorf("order service: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return domain.OrderNotFound, nil
	}
	if resp.IsError() {
		return "", fmt.Errorf("order service error (status %d): %s", resp.StatusCode(), resp.String())
	}
	if out.Status == "" {
		return domain.OrderNotFound, nil
	}
	return out.Status, nil
}

// PolicySnippet calls GET /policies/snippet?topic=...
// A 404 is reported as domain.ErrNotFound.
func (c *Client) PolicySnippet(ctx context.Context, topic string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var out snippetResponse
	resp, err := c.policies.R().
		SetContext(ctx).
		SetQueryParam("topic", topic).
		SetResult(&out).
		Get("/policies/snippet")
	if err != nil {
		return "", fmt.Errorf("policy service: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("policy topic %q: %w", topic, domain.ErrNotFound)
	}
	if resp.IsError() {
		return "", fmt.Errorf("policy service error (status %d): %s", resp.StatusCode(), resp.String())
	}
	return out.Snippet, nil
}
