// Package ai provides factory functions for creating safety classifier adapters.
package ai

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/backend"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// ErrClassifierUnavailable is returned when the configured provider cannot be built.
var ErrClassifierUnavailable = errors.New("safety classifier unavailable")

// ValidateClassifierConfig checks that settings describe a usable provider.
// The remote flag reports whether the backend client is available.
func ValidateClassifierConfig(settings *domain.ClassifierSettings, remote bool) error {
	if settings == nil {
		return fmt.Errorf("%w: no settings", ErrClassifierUnavailable)
	}
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", ErrClassifierUnavailable, settings.Provider)
	}
	if !settings.IsConfigured() {
		return fmt.Errorf("%w: %s requires classifier.api_key. Run 'dishsafe config set classifier.api_key <key>'",
			ErrClassifierUnavailable, settings.Provider.Description())
	}
	if settings.Provider == domain.ClassifierProviderBackend && !remote {
		return fmt.Errorf("%w: %s requires backend.mode remote",
			ErrClassifierUnavailable, settings.Provider.Description())
	}
	return nil
}

// CreateClassifier builds the classifier for the configured provider.
// The client is only used by the backend provider and may be nil otherwise.
// The prompt store is optional and only used by OpenAI.
func CreateClassifier(
	settings *domain.ClassifierSettings,
	client *backend.Client,
	prompts driven.PromptStore,
) (driven.SafetyClassifier, error) {
	if err := ValidateClassifierConfig(settings, client != nil); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.ClassifierProviderOpenAI:
		return createOpenAIClassifier(settings, prompts)
	case domain.ClassifierProviderBackend:
		return client.Classifier(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrClassifierUnavailable, settings.Provider)
	}
}

func createOpenAIClassifier(settings *domain.ClassifierSettings, prompts driven.PromptStore) (driven.SafetyClassifier, error) {
	classifier, err := openai.NewClassifier(openai.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}
	if prompts != nil {
		classifier.SetPromptStore(prompts)
	}
	return classifier, nil
}
