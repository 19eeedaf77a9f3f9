// Package openai provides a safety classifier adapter using the OpenAI chat API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.SafetyClassifier = (*Classifier)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second

	maxTokens = 150
)

// Config holds configuration for the OpenAI classifier.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout bounds a single HTTP exchange (default: 30s).
	Timeout time.Duration
}

// Fallback prompts, used when no PromptStore is set or it fails.
const (
	fallbackSystemPrompt = `You analyse comments about a dish together with the dietary restrictions and allergens the dish is known to contain.
You decide which of the given restrictions the comment shows the dish to be safe for.

Possible categories: %s

Reply ONLY with a comma-separated list of the safe restrictions.`

	fallbackUserPrompt = `Comment about the dish: %s
Known restrictions/allergens in the dish: %s

Please respond ONLY with a comma-separated list of safe categories taken from the known restrictions.`
)

// Classifier asks an OpenAI chat model which dietary tags a review comment
// supports as safe.
type Classifier struct {
	client      *goopenai.Client
	model       string
	promptStore driven.PromptStore
}

// NewClassifier creates a new OpenAI safety classifier.
func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Classifier{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (c *Classifier) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// Model returns the configured chat model.
func (c *Classifier) Model() string {
	return c.model
}

// Classify returns the tags the model judges safe, in tag order.
// The reply is filtered to tags, so the result is always a subset of them.
func (c *Classifier) Classify(ctx context.Context, comment string, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return []string{}, nil
	}

	system := fmt.Sprintf(
		c.loadPrompt(driven.PromptSafetySystem, fallbackSystemPrompt),
		strings.Join(domain.DietaryCategories, ", "),
	)
	user := fmt.Sprintf(
		c.loadPrompt(driven.PromptSafetyUser, fallbackUserPrompt),
		comment,
		strings.Join(tags, ", "),
	)

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxTokens,
		// go-openai omits a zero temperature from the request body.
		Temperature: math.SmallestNonzeroFloat32,
		N:           1,
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", domain.ErrClassification)
	}

	return ParseReply(resp.Choices[0].Message.Content, tags), nil
}

// loadPrompt returns the named template from the prompt store, or fallback
// when the store is unset or fails.
func (c *Classifier) loadPrompt(name, fallback string) string {
	if c.promptStore == nil {
		return fallback
	}
	prompt, err := c.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// ParseReply splits a comma-separated model reply and keeps the entries that
// match one of tags, ignoring case and surrounding brackets or quotes.
// Each tag appears at most once, in the order of tags, with the caller's spelling.
func ParseReply(reply string, tags []string) []string {
	said := []string{}
	for _, part := range strings.Split(reply, ",") {
		said = append(said, strings.Trim(strings.TrimSpace(part), "[]'\"` ."))
	}
	return domain.SelectTags(said, tags)
}

// classifyError maps a go-openai failure onto a domain error kind.
func classifyError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}

	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case 0:
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: openai rejected the API key: %w", domain.ErrNotAuthorized, err)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: openai status %d: %w", domain.ErrClassification, status, err)
	}
}
