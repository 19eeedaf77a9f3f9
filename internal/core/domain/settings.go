package domain

import "time"

const unknownDescription = "Unknown"

// BackendMode selects where restaurants, dishes and reviews are stored.
type BackendMode string

// Available backend modes.
const (
	// BackendModeRemote talks to the Dishsafe HTTP service.
	BackendModeRemote BackendMode = "remote"

	// BackendModeLocal keeps everything in a local SQLite database.
	BackendModeLocal BackendMode = "local"
)

// IsValid returns true if the backend mode is recognised.
func (m BackendMode) IsValid() bool {
	switch m {
	case BackendModeRemote, BackendModeLocal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m BackendMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m BackendMode) Description() string {
	switch m {
	case BackendModeRemote:
		return "Remote (Dishsafe service)"
	case BackendModeLocal:
		return "Local (SQLite database)"
	default:
		return unknownDescription
	}
}

// ClassifierProvider identifies the service that judges review comments.
type ClassifierProvider string

// Available classifier providers.
const (
	// ClassifierProviderBackend delegates to the backend's safety endpoint.
	ClassifierProviderBackend ClassifierProvider = "backend"

	// ClassifierProviderOpenAI calls the OpenAI chat completions API directly.
	ClassifierProviderOpenAI ClassifierProvider = "openai"
)

// IsValid returns true if the classifier provider is recognised.
func (p ClassifierProvider) IsValid() bool {
	switch p {
	case ClassifierProviderBackend, ClassifierProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p ClassifierProvider) RequiresAPIKey() bool {
	return p == ClassifierProviderOpenAI
}

// String returns the string representation.
func (p ClassifierProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ClassifierProvider) Description() string {
	switch p {
	case ClassifierProviderBackend:
		return "Backend (/check_safety/)"
	case ClassifierProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// BackendSettings holds storage service configuration.
type BackendSettings struct {
	// Mode selects remote or local storage.
	Mode BackendMode

	// URL is the base URL of the remote service.
	URL string

	// Timeout bounds each call to the backend.
	Timeout time.Duration

	// DataDir holds the local database and images in local mode.
	DataDir string
}

// ClassifierSettings holds safety classifier configuration.
type ClassifierSettings struct {
	// Provider is the classification service provider.
	Provider ClassifierProvider

	// Model is the LLM model name (OpenAI only).
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key (OpenAI only).
	APIKey string

	// Concurrency bounds in-flight classification calls per dish view.
	Concurrency int

	// RatePerSecond throttles classification calls; zero disables throttling.
	RatePerSecond float64

	// Timeout bounds each classification call.
	Timeout time.Duration
}

// IsConfigured returns true if the classifier is set up.
func (c ClassifierSettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// PlacesSettings holds place search configuration for local mode.
type PlacesSettings struct {
	// APIKey is the Google Maps Platform key. Empty limits local search
	// to restaurants already in the local database.
	APIKey string
}

// AuthSettings holds the stored bearer token.
type AuthSettings struct {
	// Token is the bearer token attached to write calls.
	Token string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Backend    BackendSettings
	Classifier ClassifierSettings
	Places     PlacesSettings
	Auth       AuthSettings
}

// Default timeouts for external calls.
const (
	DefaultBackendTimeout    = 10 * time.Second
	DefaultClassifierTimeout = 30 * time.Second
)

// DefaultAppSettings returns settings with sensible defaults.
// The classifier defaults to the backend endpoint so no API key is needed.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			Mode:    BackendModeRemote,
			URL:     "http://127.0.0.1:8000",
			Timeout: DefaultBackendTimeout,
		},
		Classifier: ClassifierSettings{
			Provider:    ClassifierProviderBackend,
			Model:       "gpt-4o-mini",
			Concurrency: 4,
			Timeout:     DefaultClassifierTimeout,
		},
	}
}

// AllBackendModes returns all available backend modes.
func AllBackendModes() []BackendMode {
	return []BackendMode{
		BackendModeRemote,
		BackendModeLocal,
	}
}

// AllClassifierProviders returns all available classifier providers.
func AllClassifierProviders() []ClassifierProvider {
	return []ClassifierProvider{
		ClassifierProviderBackend,
		ClassifierProviderOpenAI,
	}
}
