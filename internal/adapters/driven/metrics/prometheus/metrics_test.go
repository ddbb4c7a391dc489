package prometheus

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
	"github.com/custodia-labs/fieldtriage/internal/core/ports/driven"
)

func TestMetrics_IntentClassified(t *testing.T) {
	m := New()

	m.IntentClassified(domain.IntentOrderStatus, 0.95)
	m.IntentClassified(domain.IntentOrderStatus, 0.4)

	assert.InDelta(t, 2, testutil.ToFloat64(m.intentRequests.WithLabelValues("order_status")), 1e-9)
	assert.InDelta(t, 0.4, testutil.ToFloat64(m.intentConfidence), 1e-9)
}

func TestMetrics_PolicyLookup(t *testing.T) {
	m := New()

	m.PolicyLookup(driven.PolicyHit, 10*time.Millisecond)
	m.PolicyLookup(driven.PolicyMiss, 5*time.Millisecond)
	m.PolicyLookup(driven.PolicySensitiveHit, 5*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.policyHits), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.policyMisses.WithLabelValues("miss")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.policyMisses.WithLabelValues("sensitive_hit")), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.policyDuration))
}

func TestMetrics_RoutesToolsAndFallbacks(t *testing.T) {
	m := New()

	m.Routed(domain.CategoryQuery)
	m.ToolCall("order_status", nil)
	m.ToolCall("order_status", errors.New("boom"))
	m.HumanFallback(domain.ReasonLowConfidence)
	m.HumanFallback(domain.ReasonLowConfidence)

	assert.InDelta(t, 1, testutil.ToFloat64(m.routes.WithLabelValues("query")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toolCalls.WithLabelValues("order_status", "ok")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toolCalls.WithLabelValues("order_status", "error")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.fallbacks.WithLabelValues("low_confidence")), 1e-9)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.HumanFallback(domain.ReasonSafetyBlocked)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fallback_to_human_total{reason="safety_blocked"} 1`)
	assert.Contains(t, string(body), "rag_policy_duration_seconds")
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
