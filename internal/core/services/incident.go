package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// IncidentAcknowledgement is shown whenever a ticket is opened.
const IncidentAcknowledgement = "已为您提交异常处理申请，专员将在10分钟内联系您。"

// IncidentHandler opens tickets for high-risk intents.
type IncidentHandler struct {
	tickets driven.TicketSink
	orders  driven.OrderStatusLookup
	metrics driven.Metrics
	timeout time.Duration
	now     func() time.Time
}

// NewIncidentHandler creates an incident handler. The order lookup is
// optional and only enriches the snapshot.
func NewIncidentHandler(tickets driven.TicketSink, orders driven.OrderStatusLookup) *IncidentHandler {
	return &IncidentHandler{
		tickets: tickets,
		orders:  orders,
		metrics: driven.NopMetrics{},
		timeout: defaultDownstreamTimeout,
		now:     time.Now,
	}
}

// SetMetrics sets the metrics recorder.
func (h *IncidentHandler) SetMetrics(m driven.Metrics) {
	if m != nil {
		h.metrics = m
	}
}

// SetTimeout bounds collaborator calls.
func (h *IncidentHandler) SetTimeout(d time.Duration) {
	if d > 0 {
		h.timeout = d
	}
}

// Handle synthesizes a snapshot, hands it to the ticket sink and returns
// the acknowledgement. Ticket sink failures are logged, not returned.
func (h *IncidentHandler) Handle(ctx context.Context, state *domain.AgentState) domain.Incident {
	snapshot := h.Snapshot(ctx, state)

	inc := domain.Incident{Message: IncidentAcknowledgement}
	if h.tickets == nil {
		logger.Warn("No ticket sink configured, incident for user %s not recorded", snapshot.UserID)
		return inc
	}

	id, err := callBounded(ctx, h.timeout, func(ctx context.Context) (string, error) {
		return h.tickets.CreateIncident(ctx, snapshot)
	})
	h.metrics.ToolCall("ticket_sink", err)
	if err != nil {
		logger.Error("Create incident for user %s: %v", snapshot.UserID, err)
		return inc
	}

	logger.Info("Opened incident %s (%s)", id, snapshot.Intent)
	inc.IncidentID = id
	return inc
}

// Snapshot builds the incident record from the request state.
// Only the masked question is included.
func (h *IncidentHandler) Snapshot(ctx context.Context, state *domain.AgentState) domain.IncidentSnapshot {
	q := state.Query
	signals := make(map[string]string)
	if q.Context.Region != "" {
		signals["region"] = q.Context.Region
	}
	if q.Context.ClientVersion != "" {
		signals["client_version"] = q.Context.ClientVersion
	}
	if g := q.Context.Geo; g != nil {
		signals["geo"] = strconv.FormatFloat(g.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(g.Lng, 'f', 6, 64)
	}
	if orderID, ok := ExtractOrderID(q.Text); ok {
		signals["order_id"] = orderID
		if status, err := h.lookupOrder(ctx, orderID); err == nil {
			signals["order_status"] = string(status)
		} else {
			logger.Debug("Incident enrichment skipped order %s: %v", orderID, err)
		}
	}

	return domain.IncidentSnapshot{
		UserID:    q.UserID,
		Role:      q.Role,
		Intent:    state.Classification.Intent,
		Question:  state.MaskedText,
		Signals:   signals,
		CreatedAt: h.now().UTC(),
	}
}

func (h *IncidentHandler) lookupOrder(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	if h.orders == nil {
		return "", fmt.Errorf("%w: order lookup not configured", domain.ErrDownstreamError)
	}
	status, err := callBounded(ctx, h.timeout, func(ctx context.Context) (domain.OrderStatus, error) {
		return h.orders.OrderStatus(ctx, orderID)
	})
	h.metrics.ToolCall("order_status", err)
	return status, err
}
