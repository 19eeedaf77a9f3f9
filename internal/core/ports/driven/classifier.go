package driven

import "context"

// SafetyClassifier judges which dietary tags a review comment supports as safe.
//
// Implementations may include:
//   - The Dishsafe backend /check_safety/ endpoint
//   - OpenAI chat completions
type SafetyClassifier interface {
	// Classify returns the subset of tags the comment indicates are safe,
	// in the order they appear in tags.
	Classify(ctx context.Context, comment string, tags []string) ([]string, error)
}
