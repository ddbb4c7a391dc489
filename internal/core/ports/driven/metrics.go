package driven

import (
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// PolicyOutcome labels the result of a policy lookup.
type PolicyOutcome string

// Policy lookup outcomes.
const (
	PolicyHit          PolicyOutcome = "hit"
	PolicyMiss         PolicyOutcome = "miss"
	PolicySensitiveHit PolicyOutcome = "sensitive_hit"
	PolicyError        PolicyOutcome = "error"
)

// Metrics records pipeline observations.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// IntentClassified records a classification and its confidence.
	IntentClassified(intent domain.Intent, confidence float64)

	// Routed records the routing category chosen for a request.
	Routed(category domain.Category)

	// PolicyLookup records the outcome and latency of a policy retrieval.
	PolicyLookup(outcome PolicyOutcome, elapsed time.Duration)

	// ToolCall records a downstream collaborator call.
	ToolCall(tool string, err error)

	// HumanFallback records an escalation to a human.
	HumanFallback(reason domain.FallbackReason)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

var _ Metrics = NopMetrics{}

func (NopMetrics) IntentClassified(domain.Intent, float64)   {}
func (NopMetrics) Routed(domain.Category)                    {}
func (NopMetrics) PolicyLookup(PolicyOutcome, time.Duration) {}
func (NopMetrics) ToolCall(string, error)                    {}
func (NopMetrics) HumanFallback(domain.FallbackReason)       {}
