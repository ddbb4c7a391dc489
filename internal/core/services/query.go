package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// orderIDPattern matches ORD followed by an alphanumeric id with at least one digit.
var orderIDPattern = regexp.MustCompile(`(?i)ORD[A-Z]*[0-9][0-9A-Z]*`)

// noPolicySnippet is returned by the snippet collaborator for unknown topics.
const noPolicySnippet = "暂无相关政策"

// Policy snippet topics.
const (
	TopicPerishableDamage = "生鲜破损"
	TopicTyphoonSuspended = "台风停运"
	TopicCommission       = "佣金结算"
	TopicGeneral          = "通用"
)

// ExtractOrderID returns the first order id in the text, upper-cased.
func ExtractOrderID(text string) (string, bool) {
	id := orderIDPattern.FindString(text)
	if id == "" {
		return "", false
	}
	return strings.ToUpper(id), true
}

// PolicyTopic normalizes a question into a snippet lookup topic.
func PolicyTopic(intent domain.Intent, text string) string {
	switch {
	case strings.Contains(text, "烂"), strings.Contains(text, "破损"):
		return TopicPerishableDamage
	case strings.Contains(text, "台风"), strings.Contains(text, "停运"):
		return TopicTyphoonSuspended
	case strings.Contains(text, "佣金"), strings.Contains(text, "结算"):
		return TopicCommission
	case intent == domain.IntentCommissionRule:
		return TopicCommission
	default:
		return TopicGeneral
	}
}

// FormatPolicyAnswer renders a policy answer with its optional deep link.
func FormatPolicyAnswer(text, deepLink string) string {
	msg := "根据最新政策：" + text
	if deepLink != "" {
		msg += "\n\n查看全文：" + deepLink
	}
	return msg
}

// QueryHandler answers order status and policy questions.
type QueryHandler struct {
	retriever driving.RetrievalService
	orders    driven.OrderStatusLookup
	snippets  driven.PolicySnippetLookup
	gate      *SafetyGate
	retrieval domain.RetrievalSettings
	metrics   driven.Metrics
	timeout   time.Duration
}

// NewQueryHandler creates a query handler. Any collaborator may be nil;
// questions that need a missing collaborator go to a human.
func NewQueryHandler(
	retriever driving.RetrievalService,
	orders driven.OrderStatusLookup,
	snippets driven.PolicySnippetLookup,
	gate *SafetyGate,
	retrieval domain.RetrievalSettings,
) *QueryHandler {
	return &QueryHandler{
		retriever: retriever,
		orders:    orders,
		snippets:  snippets,
		gate:      gate,
		retrieval: retrieval,
		metrics:   driven.NopMetrics{},
		timeout:   defaultDownstreamTimeout,
	}
}

// SetMetrics sets the metrics recorder.
func (h *QueryHandler) SetMetrics(m driven.Metrics) {
	if m != nil {
		h.metrics = m
	}
}

// SetTimeout bounds collaborator calls.
func (h *QueryHandler) SetTimeout(d time.Duration) {
	if d > 0 {
		h.timeout = d
	}
}

// Handle produces an answer for a query-category intent.
func (h *QueryHandler) Handle(ctx context.Context, state *domain.AgentState) (domain.Response, error) {
	switch intent := state.Classification.Intent; {
	case intent == domain.IntentOrderStatus:
		return h.orderStatus(ctx, state)
	case intent.UsesPolicyRetrieval():
		return h.policy(ctx, state)
	default:
		return nil, fmt.Errorf("%w: %s is not a query intent", domain.ErrUnmappedIntent, intent)
	}
}

func (h *QueryHandler) orderStatus(ctx context.Context, state *domain.AgentState) (domain.Response, error) {
	orderID, ok := ExtractOrderID(state.Query.Text)
	if !ok {
		return nil, domain.ErrMissingOrderID
	}
	if h.orders == nil {
		return nil, fmt.Errorf("%w: order lookup not configured", domain.ErrDownstreamError)
	}

	status, err := callBounded(ctx, h.timeout, func(ctx context.Context) (domain.OrderStatus, error) {
		return h.orders.OrderStatus(ctx, orderID)
	})
	h.metrics.ToolCall("order_status", err)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s not found", domain.ErrMissingOrderID, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("order status %s: %w", orderID, err)
	}
	if status == domain.OrderNotFound || status == "" {
		return nil, fmt.Errorf("%w: order %s not found", domain.ErrMissingOrderID, orderID)
	}

	logger.Debug("Order %s status: %s", orderID, status)
	return domain.Answer{
		Message: fmt.Sprintf("订单 %s 状态：%s", orderID, status),
		Source:  domain.SourceOrderTool,
	}, nil
}

func (h *QueryHandler) policy(ctx context.Context, state *domain.AgentState) (domain.Response, error) {
	if h.retriever == nil {
		logger.Warn("Retrieval engine not configured, using policy snippets")
		return h.policySnippet(ctx, state)
	}

	start := time.Now()
	opts := h.retrieval.Options(domain.FilterFor(state.Query.Context))
	results, err := h.retriever.Retrieve(ctx, state.MaskedText, opts)
	if err != nil {
		h.metrics.PolicyLookup(driven.PolicyError, time.Since(start))
		logger.Warn("Retrieval failed, using policy snippets: %v", err)
		return h.policySnippet(ctx, state)
	}

	if len(results) == 0 {
		h.metrics.PolicyLookup(driven.PolicyMiss, time.Since(start))
		return nil, domain.ErrRetrievalMiss
	}

	best := results[0]
	if h.gate != nil && h.gate.ContainsSensitive(best.Text) {
		h.metrics.PolicyLookup(driven.PolicySensitiveHit, time.Since(start))
		return nil, fmt.Errorf("%w: %s", domain.ErrRetrievalSensitiveHit, best.DocumentID)
	}

	h.metrics.PolicyLookup(driven.PolicyHit, time.Since(start))
	logger.Debug("Best policy: %s (%.4f via %v)", best.DocumentID, best.Score, best.Signals)
	return domain.Answer{
		Message:  FormatPolicyAnswer(best.Text, best.DeepLink),
		Source:   domain.SourcePolicyRAG,
		DeepLink: best.DeepLink,
	}, nil
}

// policySnippet answers from the snippet collaborator when retrieval is unavailable.
func (h *QueryHandler) policySnippet(ctx context.Context, state *domain.AgentState) (domain.Response, error) {
	if h.snippets == nil {
		return nil, fmt.Errorf("%w: policy snippets not configured", domain.ErrDownstreamError)
	}

	topic := PolicyTopic(state.Classification.Intent, state.MaskedText)
	snippet, err := callBounded(ctx, h.timeout, func(ctx context.Context) (string, error) {
		return h.snippets.PolicySnippet(ctx, topic)
	})
	h.metrics.ToolCall("policy_snippet", err)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && (snippet == "" || snippet == noPolicySnippet)) {
		return nil, fmt.Errorf("%w: no snippet for topic %s", domain.ErrRetrievalMiss, topic)
	}
	if err != nil {
		return nil, fmt.Errorf("policy snippet %s: %w", topic, err)
	}
	if h.gate != nil && h.gate.ContainsSensitive(snippet) {
		return nil, fmt.Errorf("%w: snippet for topic %s", domain.ErrRetrievalSensitiveHit, topic)
	}

	return domain.Answer{
		Message: FormatPolicyAnswer(snippet, ""),
		Source:  domain.SourcePolicySnippet,
	}, nil
}
