package driven

// Prompt names used by the LLM safety classifier.
const (
	// PromptSafetySystem is the system prompt. It receives the comma-separated
	// dietary category universe as its single %s placeholder.
	PromptSafetySystem = "safety_system"

	// PromptSafetyUser is the user prompt. It receives the review comment and
	// the comma-separated known tags, in that order.
	PromptSafetyUser = "safety_user"
)

// PromptStore loads customisable LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for name.
	Load(name string) (string, error)
}
