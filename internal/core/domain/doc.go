// Package domain defines the core business entities for the triage pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Query: A field worker's question with its request context
//   - ClassificationResult: Intent label and confidence for a query
//   - PolicyDocument: An entry of the static policy corpus
//   - RetrievalCandidate / FusedResult: Evidence produced by retrieval
//   - Response: The closed set of terminal answers (Answer, ActionGuidance,
//     Incident, HumanFallback)
//   - AgentState: Per-request accumulator owned by the orchestrator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
