package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider type in configuration.
	ErrUnsupportedType = errors.New("unsupported type")

	// Triage Errors.
	// Every one of these is converted into a terminal response by the
	// orchestrator and never reaches the end user.

	// ErrSafetyBlocked indicates the question contains a sensitive term.
	ErrSafetyBlocked = errors.New("safety blocked")

	// ErrLowConfidence indicates the classifier was not confident enough,
	// or returned other/unknown.
	ErrLowConfidence = errors.New("low confidence")

	// ErrClassifierUnavailable indicates the classifier failed.
	// It degrades to the low confidence path.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrRetrievalMiss indicates no policy survived retrieval.
	ErrRetrievalMiss = errors.New("retrieval miss")

	// ErrRetrievalSensitiveHit indicates the best policy match itself
	// contains a sensitive term and must not be shown.
	ErrRetrievalSensitiveHit = errors.New("retrieval sensitive hit")

	// ErrDownstreamTimeout indicates an external call exceeded its deadline.
	ErrDownstreamTimeout = errors.New("downstream timeout")

	// ErrDownstreamError indicates an external call failed.
	ErrDownstreamError = errors.New("downstream error")

	// ErrUnmappedIntent indicates the intent has no routing category.
	ErrUnmappedIntent = errors.New("unmapped intent")

	// ErrHedgedAnswer indicates an automated answer used hedging language.
	ErrHedgedAnswer = errors.New("hedged answer")

	// ErrMissingOrderID indicates an order status question without an order id.
	ErrMissingOrderID = errors.New("missing order id")

	// Capability Errors.

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The vector signal is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrKeywordIndexUnavailable indicates the keyword index is not configured.
	ErrKeywordIndexUnavailable = errors.New("keyword index unavailable")
)

// FallbackReason records internally why a request went to a human.
// It is kept for observability only; users see a uniform message per class.
type FallbackReason string

// Known fallback reasons.
const (
	ReasonNone                  FallbackReason = ""
	ReasonSafetyBlocked         FallbackReason = "safety_blocked"
	ReasonLowConfidence         FallbackReason = "low_confidence"
	ReasonClassifierUnavailable FallbackReason = "classifier_unavailable"
	ReasonUnmappedIntent        FallbackReason = "unmapped_intent"
	ReasonRetrievalMiss         FallbackReason = "retrieval_miss"
	ReasonRetrievalSensitiveHit FallbackReason = "retrieval_sensitive_hit"
	ReasonHedgedAnswer          FallbackReason = "hedged_answer"
	ReasonMissingOrderID        FallbackReason = "missing_order_id"
	ReasonDownstreamTimeout     FallbackReason = "downstream_timeout"
	ReasonDownstreamError       FallbackReason = "downstream_error"
	ReasonIncident              FallbackReason = "incident"
	ReasonInternal              FallbackReason = "internal_error"
)

// FallbackReasonFor maps an error from the taxonomy to its reason.
// Errors outside the taxonomy map to ReasonInternal.
func FallbackReasonFor(err error) FallbackReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrSafetyBlocked):
		return ReasonSafetyBlocked
	case errors.Is(err, ErrClassifierUnavailable):
		return ReasonClassifierUnavailable
	case errors.Is(err, ErrLowConfidence):
		return ReasonLowConfidence
	case errors.Is(err, ErrUnmappedIntent):
		return ReasonUnmappedIntent
	case errors.Is(err, ErrRetrievalSensitiveHit):
		return ReasonRetrievalSensitiveHit
	case errors.Is(err, ErrRetrievalMiss), errors.Is(err, ErrNotFound):
		return ReasonRetrievalMiss
	case errors.Is(err, ErrHedgedAnswer):
		return ReasonHedgedAnswer
	case errors.Is(err, ErrMissingOrderID):
		return ReasonMissingOrderID
	case errors.Is(err, ErrDownstreamTimeout):
		return ReasonDownstreamTimeout
	case errors.Is(err, ErrDownstreamError):
		return ReasonDownstreamError
	default:
		return ReasonInternal
	}
}
