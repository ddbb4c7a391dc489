package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func TestOrders_DemoTable(t *testing.T) {
	orders := NewOrders(nil)
	ctx := context.Background()

	tests := []struct {
		id   string
		want domain.OrderStatus
	}{
		{"ORD123", domain.OrderDelivered},
		{"ord456", domain.OrderInTransit},
		{"ORD999", domain.OrderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := orders.OrderStatus(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrders_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOrders(nil).OrderStatus(ctx, "ORD123")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnippets_DemoTable(t *testing.T) {
	snippets := NewSnippets(nil)
	ctx := context.Background()

	got, err := snippets.PolicySnippet(ctx, "佣金结算")
	require.NoError(t, err)
	assert.Equal(t, "每日 18:00 结算前日佣金", got)

	got, err = snippets.PolicySnippet(ctx, "通用")
	require.NoError(t, err)
	assert.Equal(t, NoPolicy, got)
}

func TestSnippets_CustomTable(t *testing.T) {
	snippets := NewSnippets(map[string]string{"x": "y"})

	got, err := snippets.PolicySnippet(context.Background(), "台风停运")

	require.NoError(t, err)
	assert.Equal(t, NoPolicy, got)
}
