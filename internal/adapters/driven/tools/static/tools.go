// Package static provides fixed-table order and policy collaborators.
// They back local runs and tests when no order or policy service is configured.
package static

import (
	"context"
	"strings"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.OrderStatusLookup   = (*Orders)(nil)
	_ driven.PolicySnippetLookup = (*Snippets)(nil)
)

// NoPolicy is returned for topics without a snippet.
const NoPolicy = "暂无相关政策"

// Orders answers order status from a fixed table.
type Orders struct {
	statuses map[string]domain.OrderStatus
}

// NewOrders creates an order lookup. A nil table selects the demo orders.
func NewOrders(statuses map[string]domain.OrderStatus) *Orders {
	if statuses == nil {
		statuses = map[string]domain.OrderStatus{
			"ORD123": domain.OrderDelivered,
			"ORD456": domain.OrderInTransit,
		}
	}
	table := make(map[string]domain.OrderStatus, len(statuses))
	for id, s := range statuses {
		table[strings.ToUpper(id)] = s
	}
	return &Orders{statuses: table}
}

// OrderStatus returns the status of an order. Unknown orders are NOT_FOUND.
func (o *Orders) OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s, ok := o.statuses[strings.ToUpper(orderID)]; ok {
		return s, nil
	}
	return domain.OrderNotFound, nil
}

// Snippets answers policy topics from a fixed table.
type Snippets struct {
	snippets map[string]string
}

// NewSnippets creates a snippet lookup. A nil table selects the demo snippets.
func NewSnippets(snippets map[string]string) *Snippets {
	if snippets == nil {
		snippets = map[string]string{
			"生鲜破损": "请在 App【我的-售后】上传照片申请补货",
			"台风停运": "极端天气以区域通知为准",
			"佣金结算": "每日 18:00 结算前日佣金",
		}
	}
	return &Snippets{snippets: snippets}
}

// PolicySnippet returns the snippet for a topic, or NoPolicy.
func (s *Snippets) PolicySnippet(ctx context.Context, topic string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if text, ok := s.snippets[topic]; ok {
		return text, nil
	}
	return NoPolicy, nil
}
