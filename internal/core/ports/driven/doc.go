// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - IntentClassifier: Labels a question with an intent and confidence
//   - KeywordIndex: TF-IDF keyword search over the policy corpus
//   - PolicyStore: Durable policy corpus and embeddings
//   - OrderStatusLookup: Order collaborator
//   - TicketSink: Ticketing collaborator
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Vector storage/search. Only enabled when EmbeddingService is configured.
//   - EmbeddingService: Generates vector embeddings. Without it, VectorIndex is also disabled.
//   - PolicySnippetLookup: Non-retrieval fallback for policy questions.
//   - Metrics: Counters and histograms. Defaults to a no-op recorder.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
