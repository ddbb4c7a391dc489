package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

func queryState(intent domain.Intent, text string) *domain.AgentState {
	state := domain.NewAgentState(domain.Query{Text: text, UserID: "u1", Context: domain.RequestContext{Region: "GD"}})
	state.MaskedText = Mask(text)
	state.Classification = domain.ClassificationResult{Intent: intent, Confidence: 0.95}
	return state
}

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"ORD123 生鲜烂了怎么处理？", "ORD123", true},
		{"查一下ord456到哪了", "ORD456", true},
		{"订单ORDAB12状态", "ORDAB12", true},
		{"my ORDER is late", "", false},
		{"没有订单号", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractOrderID(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestPolicyTopic(t *testing.T) {
	assert.Equal(t, TopicPerishableDamage, PolicyTopic(domain.IntentPolicyQuery, "生鲜烂了"))
	assert.Equal(t, TopicPerishableDamage, PolicyTopic(domain.IntentPolicyQuery, "外包装破损"))
	assert.Equal(t, TopicTyphoonSuspended, PolicyTopic(domain.IntentPolicyQuery, "台风天还送吗"))
	assert.Equal(t, TopicCommission, PolicyTopic(domain.IntentPolicyQuery, "佣金怎么算"))
	assert.Equal(t, TopicCommission, PolicyTopic(domain.IntentCommissionRule, "钱什么时候到"))
	assert.Equal(t, TopicGeneral, PolicyTopic(domain.IntentPolicyQuery, "规定是什么"))
}

func TestFormatPolicyAnswer(t *testing.T) {
	assert.Equal(t, "根据最新政策：A", FormatPolicyAnswer("A", ""))
	assert.Equal(t, "根据最新政策：A\n\n查看全文：app://p", FormatPolicyAnswer("A", "app://p"))
}

func TestQueryHandler_OrderStatus(t *testing.T) {
	orders := &mockOrders{statuses: map[string]domain.OrderStatus{"ORD123": domain.OrderDelivered}}
	h := NewQueryHandler(nil, orders, nil, nil, domain.DefaultSettings().Retrieval)

	resp, err := h.Handle(context.Background(), queryState(domain.IntentOrderStatus, "ORD123 到哪了"))

	require.NoError(t, err)
	assert.Equal(t, domain.Answer{Message: "订单 ORD123 状态：DELIVERED", Source: domain.SourceOrderTool}, resp)
}

func TestQueryHandler_OrderStatusFailures(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		orders  *mockOrders
		wantErr error
	}{
		{"missing id", "我的订单到哪了", &mockOrders{}, domain.ErrMissingOrderID},
		{"not found", "ORD999 到哪了", &mockOrders{}, domain.ErrMissingOrderID},
		{"tool error", "ORD123 到哪了", &mockOrders{err: errors.New("503")}, domain.ErrDownstreamError},
		{"tool not found error", "ORD123 到哪了", &mockOrders{err: domain.ErrNotFound}, domain.ErrMissingOrderID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewQueryHandler(nil, tt.orders, nil, nil, domain.DefaultSettings().Retrieval)

			_, err := h.Handle(context.Background(), queryState(domain.IntentOrderStatus, tt.text))

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQueryHandler_PolicyHit(t *testing.T) {
	retriever := &mockRetriever{results: []domain.FusedResult{
		{DocumentID: "P001", Text: "上传照片申请补货", DeepLink: "app://policy/P001", Score: 0.03},
	}}
	metrics := newRecordingMetrics()
	h := NewQueryHandler(retriever, nil, nil, NewSafetyGate([]string{"赔偿"}), domain.DefaultSettings().Retrieval)
	h.SetMetrics(metrics)

	resp, err := h.Handle(context.Background(), queryState(domain.IntentPolicyQuery, "生鲜烂了怎么处理"))

	require.NoError(t, err)
	answer, ok := resp.(domain.Answer)
	require.True(t, ok)
	assert.Equal(t, "根据最新政策：上传照片申请补货\n\n查看全文：app://policy/P001", answer.Message)
	assert.Equal(t, domain.SourcePolicyRAG, answer.Source)
	assert.Equal(t, "app://policy/P001", answer.DeepLink)
	assert.Equal(t, []driven.PolicyOutcome{driven.PolicyHit}, metrics.lookups)
	assert.Equal(t, "GD", retriever.opts.Filter.Region)
	assert.Equal(t, 1, retriever.opts.TopK)
}

func TestQueryHandler_PolicyMiss(t *testing.T) {
	metrics := newRecordingMetrics()
	h := NewQueryHandler(&mockRetriever{}, nil, nil, nil, domain.DefaultSettings().Retrieval)
	h.SetMetrics(metrics)

	_, err := h.Handle(context.Background(), queryState(domain.IntentPolicyQuery, "不存在的政策"))

	assert.ErrorIs(t, err, domain.ErrRetrievalMiss)
	assert.Equal(t, []driven.PolicyOutcome{driven.PolicyMiss}, metrics.lookups)
}

func TestQueryHandler_PolicySensitiveHit(t *testing.T) {
	retriever := &mockRetriever{results: []domain.FusedResult{{DocumentID: "P9", Text: "涉及法律纠纷的处理"}}}
	h := NewQueryHandler(retriever, nil, nil, NewSafetyGate([]string{"法律"}), domain.DefaultSettings().Retrieval)

	_, err := h.Handle(context.Background(), queryState(domain.IntentPolicyQuery, "纠纷怎么办"))

	assert.ErrorIs(t, err, domain.ErrRetrievalSensitiveHit)
}

func TestQueryHandler_SnippetFallbackOnEngineError(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("both signals failed")}
	snippets := &mockSnippets{snippets: map[string]string{TopicPerishableDamage: "请在 App【我的-售后】上传照片申请补货"}}
	h := NewQueryHandler(retriever, nil, snippets, nil, domain.DefaultSettings().Retrieval)

	resp, err := h.Handle(context.Background(), queryState(domain.IntentPolicyQuery, "生鲜烂了"))

	require.NoError(t, err)
	assert.Equal(t, TopicPerishableDamage, snippets.topic)
	assert.Equal(t, domain.Answer{
		Message: "根据最新政策：请在 App【我的-售后】上传照片申请补货",
		Source:  domain.SourcePolicySnippet,
	}, resp)
}

func TestQueryHandler_SnippetNoPolicyIsMiss(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("both signals failed")}
	h := NewQueryHandler(retriever, nil, &mockSnippets{}, nil, domain.DefaultSettings().Retrieval)

	_, err := h.Handle(context.Background(), queryState(domain.IntentPolicyQuery, "规定是什么"))

	assert.ErrorIs(t, err, domain.ErrRetrievalMiss)
}

func TestQueryHandler_NonQueryIntent(t *testing.T) {
	h := NewQueryHandler(nil, nil, nil, nil, domain.DefaultSettings().Retrieval)

	_, err := h.Handle(context.Background(), queryState(domain.IntentDamageReport, "破损"))

	assert.ErrorIs(t, err, domain.ErrUnmappedIntent)
}
