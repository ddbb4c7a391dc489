package domain

// Signal identifies which retrieval signal produced a candidate.
type Signal string

// Available retrieval signals.
const (
	// SignalVector is embedding nearest-neighbour search.
	SignalVector Signal = "vector"

	// SignalKeyword is TF-IDF cosine similarity search.
	SignalKeyword Signal = "keyword"
)

// MetadataFilter scopes retrieval to documents valid for the caller.
// It is applied identically by every retrieval signal before fusion.
type MetadataFilter struct {
	// Region must equal the document region when both are set.
	Region string

	// ClientVersion is the caller's client version. Documents whose
	// MinClientVersion is greater than it are rejected.
	ClientVersion string
}

// FilterFor builds the metadata filter for a request context.
func FilterFor(rc RequestContext) MetadataFilter {
	return MetadataFilter{
		Region:        rc.Region,
		ClientVersion: rc.ClientVersion,
	}
}

// RetrievalOptions configures a hybrid retrieval call.
type RetrievalOptions struct {
	// Filter is the metadata predicate applied to every signal.
	Filter MetadataFilter

	// TopK is the maximum number of fused results.
	TopK int

	// ScoreThreshold drops vector candidates scoring below it.
	ScoreThreshold float64
}

// RetrievalCandidate is a transient, signal-specific search hit.
// Scores are not comparable across signals.
type RetrievalCandidate struct {
	DocumentID string
	Text       string
	DeepLink   string
	Score      float64
	Signal     Signal
}

// FusedResult is a document that survived reciprocal-rank fusion.
type FusedResult struct {
	// DocumentID is the matched document.
	DocumentID string `json:"document_id"`

	// Score is the accumulated RRF score.
	Score float64 `json:"score"`

	// Text is the best available snippet for the document.
	Text string `json:"text"`

	// DeepLink is the best available deep link for the document.
	DeepLink string `json:"deep_link,omitempty"`

	// Signals lists the signals that contributed to the score.
	Signals []Signal `json:"signals"`
}
