package driven

import "context"

// EmbeddingService turns text into vectors for the vector signal.
// It is optional: without one, retrieval runs on the keyword signal alone.
//
// The index build embeds policy content in batches; the retriever embeds
// each query once. Both must use the same model, so Dimensions has to
// match the VectorIndex loaded from the durable index.
type EmbeddingService interface {
	// Embed returns the vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector size produced by the model.
	Dimensions() int

	// ModelName identifies the model, reported by the index build.
	ModelName() string

	// Ping checks the provider is reachable before it is wired in.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
