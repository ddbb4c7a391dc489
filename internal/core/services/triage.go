package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driving"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// Ensure TriageService implements the interface.
var _ driving.TriageService = (*TriageService)(nil)

// User-facing fallback messages, one per class of failure.
const (
	MessageSensitive    = "该问题涉及敏感内容，请【点击转人工】由专员为您处理。"
	MessageClarify      = "请描述更清楚，或【联系人工客服】。"
	MessagePolicyMiss   = "未找到相关政策说明，请联系人工客服。"
	MessageNeedsReview  = "信息需人工确认，请联系客服。"
	MessageLookupFailed = "查询失败，请联系客服。"
)

// fallbackMessage returns the user-facing text for a fallback reason.
func fallbackMessage(reason domain.FallbackReason) string {
	switch reason {
	case domain.ReasonSafetyBlocked:
		return MessageSensitive
	case domain.ReasonLowConfidence, domain.ReasonClassifierUnavailable, domain.ReasonUnmappedIntent:
		return MessageClarify
	case domain.ReasonRetrievalMiss, domain.ReasonRetrievalSensitiveHit:
		return MessagePolicyMiss
	case domain.ReasonHedgedAnswer:
		return MessageNeedsReview
	default:
		return MessageLookupFailed
	}
}

// TriageDeps holds the collaborators of the triage pipeline.
// Every field except Classifier may be nil.
type TriageDeps struct {
	Classifier driven.IntentClassifier
	Retriever  driving.RetrievalService
	Orders     driven.OrderStatusLookup
	Snippets   driven.PolicySnippetLookup
	Tickets    driven.TicketSink
	Metrics    driven.Metrics
}

// TriageService runs the safety-gated, confidence-gated routing state machine.
// It holds no per-request state and is safe for concurrent use.
type TriageService struct {
	gate       *SafetyGate
	classifier *ClassifierAdapter
	queries    *QueryHandler
	incidents  *IncidentHandler
	threshold  float64
	hedging    []string
	metrics    driven.Metrics
}

// NewTriageService wires the pipeline from settings and collaborators.
func NewTriageService(settings domain.Settings, deps TriageDeps) *TriageService {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	timeout := settings.Pipeline.DownstreamTimeout()
	classifierTimeout := time.Duration(settings.Classifier.TimeoutMS) * time.Millisecond
	if classifierTimeout <= 0 {
		classifierTimeout = timeout
	}

	gate := NewSafetyGate(settings.Pipeline.SensitiveTerms)

	queries := NewQueryHandler(deps.Retriever, deps.Orders, deps.Snippets, gate, settings.Retrieval)
	queries.SetMetrics(metrics)
	queries.SetTimeout(timeout)

	incidents := NewIncidentHandler(deps.Tickets, deps.Orders)
	incidents.SetMetrics(metrics)
	incidents.SetTimeout(timeout)

	return &TriageService{
		gate:       gate,
		classifier: NewClassifierAdapter(deps.Classifier, classifierTimeout),
		queries:    queries,
		incidents:  incidents,
		threshold:  settings.Pipeline.ConfidenceThreshold,
		hedging:    settings.Pipeline.HedgingTerms,
		metrics:    metrics,
	}
}

// Triage runs the pipeline for one query. Errors and panics never escape;
// they become a human fallback on the returned state.
func (s *TriageService) Triage(ctx context.Context, q domain.Query) (state *domain.AgentState) {
	logger.Section("Triage")
	state = domain.NewAgentState(q)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Triage panicked at stage %s: %v", state.Stage(), r)
			s.escalate(state, fmt.Errorf("panic: %v", r))
		}
		if state.Stage() != domain.StageDone {
			state.Enter(domain.StageDone)
		}
		logger.Info("Triage done: trail=%v requires_human=%t reason=%q",
			state.Trail, state.RequiresHuman(), state.Reason)
	}()

	state.Enter(domain.StageSafetyCheck)
	blocked, masked := s.gate.Screen(q.Text)
	state.MaskedText = masked
	logger.Debug("Question: %q", masked)
	if blocked {
		s.escalate(state, domain.ErrSafetyBlocked)
		return state
	}

	state.Enter(domain.StageClassify)
	res, cause := s.classifier.Evaluate(ctx, masked)
	state.Classification = res
	s.metrics.IntentClassified(res.Intent, res.Confidence)
	if cause != nil {
		s.escalate(state, cause)
		return state
	}
	if !res.Intent.IsActionable() || res.Confidence < s.threshold {
		s.escalate(state, fmt.Errorf("%w: %s at %.2f", domain.ErrLowConfidence, res.Intent, res.Confidence))
		return state
	}

	state.Enter(domain.StageRoute)
	category, ok := domain.CategoryOf(res.Intent)
	if !ok {
		s.escalate(state, fmt.Errorf("%w: %s", domain.ErrUnmappedIntent, res.Intent))
		return state
	}
	state.Route = category
	s.metrics.Routed(category)
	logger.Debug("Routed %s to %s", res.Intent, category)

	state.Enter(domain.StageFor(category))
	switch category {
	case domain.CategoryQuery:
		s.handleQuery(ctx, state)
	case domain.CategoryAction:
		s.handleAction(state)
	case domain.CategoryIncident:
		inc := s.incidents.Handle(ctx, state)
		state.OpenIncident(inc)
		s.metrics.HumanFallback(domain.ReasonIncident)
	default:
		s.escalate(state, fmt.Errorf("%w: category %s", domain.ErrUnmappedIntent, category))
	}
	return state
}

func (s *TriageService) handleQuery(ctx context.Context, state *domain.AgentState) {
	resp, err := s.queries.Handle(ctx, state)
	if err != nil {
		s.escalate(state, err)
		return
	}
	if containsAny(resp.Text(), s.hedging) {
		s.escalate(state, domain.ErrHedgedAnswer)
		return
	}
	s.respond(state, resp)
}

func (s *TriageService) handleAction(state *domain.AgentState) {
	guidance, err := ActionTemplate(state.Classification.Intent)
	if err != nil {
		s.escalate(state, err)
		return
	}
	s.respond(state, guidance)
}

func (s *TriageService) respond(state *domain.AgentState, resp domain.Response) {
	if !state.Respond(resp) {
		logger.Warn("Automated %s refused: request already requires a human", resp.Kind())
	}
}

// escalate converts an error into a human fallback.
func (s *TriageService) escalate(state *domain.AgentState, err error) {
	reason := domain.FallbackReasonFor(err)
	logger.Info("Falling back to human at %s: %v", state.Stage(), err)
	state.Enter(domain.StageHumanFallback)
	state.Escalate(reason, fallbackMessage(reason))
	s.metrics.HumanFallback(reason)
}
