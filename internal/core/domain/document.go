package domain

// PolicyDocument is a single entry of the static policy corpus.
// The corpus is loaded once at process start and never mutated afterwards.
type PolicyDocument struct {
	// ID is the unique identifier for the document.
	ID string `json:"id" yaml:"id"`

	// Content is the policy text surfaced to the user.
	Content string `json:"content" yaml:"content"`

	// DeepLink optionally points at the full policy inside the app.
	DeepLink string `json:"deep_link,omitempty" yaml:"deep_link,omitempty"`

	// Metadata scopes the document to regions and client versions.
	Metadata PolicyMetadata `json:"metadata" yaml:"metadata"`
}

// PolicyMetadata holds the attributes used by metadata filtering.
type PolicyMetadata struct {
	// Region restricts the document to one region. Empty means all regions.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// MinClientVersion is the lowest client version the document applies to.
	// Empty means every version.
	MinClientVersion string `json:"min_client_version,omitempty" yaml:"min_client_version,omitempty"`
}

// IndexedPolicy pairs a document with its precomputed embedding.
// Produced by the offline index build and consumed at startup.
type IndexedPolicy struct {
	Document  PolicyDocument
	Embedding []float32
}

// HasEmbedding reports whether the vector signal can use this entry.
func (p IndexedPolicy) HasEmbedding() bool {
	return len(p.Embedding) > 0
}
