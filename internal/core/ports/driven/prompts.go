package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the registered
	// default or an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptIntentClassifier is the system prompt of the chat model
	// classifier. It has no format placeholders.
	PromptIntentClassifier = "intent_classifier"
)

// PromptStoreAware is an optional interface for adapters that can use
// custom prompts. Without a store they use their built-in prompt.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
