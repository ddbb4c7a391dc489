// Package prometheus records pipeline observations as Prometheus metrics.
package prometheus

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

// Metrics is a driven.Metrics backed by a Prometheus registry.
type Metrics struct {
	registry *prom.Registry

	intentRequests   *prom.CounterVec
	intentConfidence prom.Gauge
	routes           *prom.CounterVec
	policyHits       prom.Counter
	policyMisses     *prom.CounterVec
	policyDuration   prom.Histogram
	toolCalls        *prom.CounterVec
	fallbacks        *prom.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		intentRequests: prom.NewCounterVec(prom.CounterOpts{
			Name: "intent_requests_total",
			Help: "Total intent classification requests.",
		}, []string{"intent"}),
		intentConfidence: prom.NewGauge(prom.GaugeOpts{
			Name: "intent_confidence",
			Help: "Latest intent confidence score.",
		}),
		routes: prom.NewCounterVec(prom.CounterOpts{
			Name: "triage_routes_total",
			Help: "Requests routed per category.",
		}, []string{"category"}),
		policyHits: prom.NewCounter(prom.CounterOpts{
			Name: "rag_policy_hit_total",
			Help: "RAG policy hit.",
		}),
		policyMisses: prom.NewCounterVec(prom.CounterOpts{
			Name: "rag_policy_miss_total",
			Help: "RAG policy miss.",
		}, []string{"outcome"}),
		policyDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "rag_policy_duration_seconds",
			Help:    "RAG response time.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
		}),
		toolCalls: prom.NewCounterVec(prom.CounterOpts{
			Name: "tool_calls_total",
			Help: "Downstream collaborator calls.",
		}, []string{"tool", "result"}),
		fallbacks: prom.NewCounterVec(prom.CounterOpts{
			Name: "fallback_to_human_total",
			Help: "Total fallback to human.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.intentRequests,
		m.intentConfidence,
		m.routes,
		m.policyHits,
		m.policyMisses,
		m.policyDuration,
		m.toolCalls,
		m.fallbacks,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prom.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// IntentClassified implements driven.Metrics.
func (m *Metrics) IntentClassified(intent domain.Intent, confidence float64) {
	m.intentRequests.WithLabelValues(intent.String()).Inc()
	m.intentConfidence.Set(confidence)
}

// Routed implements driven.Metrics.
func (m *Metrics) Routed(category domain.Category) {
	m.routes.WithLabelValues(string(category)).Inc()
}

// PolicyLookup implements driven.Metrics.
func (m *Metrics) PolicyLookup(outcome driven.PolicyOutcome, elapsed time.Duration) {
	m.policyDuration.Observe(elapsed.Seconds())
	if outcome == driven.PolicyHit {
		m.policyHits.Inc()
		return
	}
	m.policyMisses.WithLabelValues(string(outcome)).Inc()
}

// ToolCall implements driven.Metrics.
func (m *Metrics) ToolCall(tool string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.toolCalls.WithLabelValues(tool, result).Inc()
}

// HumanFallback implements driven.Metrics.
func (m *Metrics) HumanFallback(reason domain.FallbackReason) {
	m.fallbacks.WithLabelValues(string(reason)).Inc()
}
