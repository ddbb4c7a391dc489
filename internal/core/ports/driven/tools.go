package driven

import (
	"context"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// OrderStatusLookup is the order collaborator. Calls are remote and fallible.
type OrderStatusLookup interface {
	// OrderStatus returns the status of an order. Unknown orders return
	// domain.OrderNotFound without an error.
	OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error)
}

// PolicySnippetLookup returns a policy snippet keyed by a normalized topic.
// It is used only when hybrid retrieval is unavailable.
type PolicySnippetLookup interface {
	// PolicySnippet returns the snippet for a topic, or domain.ErrNotFound.
	PolicySnippet(ctx context.Context, topic string) (string, error)
}
