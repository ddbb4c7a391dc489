package driving

import "context"

// IndexReport summarises an index build.
type IndexReport struct {
	// Documents is the number of policies persisted.
	Documents int

	// Embedded is the number of policies that received an embedding.
	Embedded int

	// Model is the embedding model used, empty when embeddings are disabled.
	Model string
}

// IndexService builds the durable policy index from the corpus.
type IndexService interface {
	// Build loads the corpus, embeds it and replaces the stored index.
	Build(ctx context.Context) (IndexReport, error)
}
