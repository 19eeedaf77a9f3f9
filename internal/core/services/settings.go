package services

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBackendMode          = "backend.mode"
	KeyBackendURL           = "backend.url"
	KeyBackendTimeout       = "backend.timeout"
	KeyStorageDataDir       = "storage.data_dir"
	KeyClassifierProvider   = "classifier.provider"
	KeyClassifierModel      = "classifier.model"
	KeyClassifierBaseURL    = "classifier.base_url"
	KeyClassifierAPIKey     = "classifier.api_key"
	KeyClassifierConcurrent = "classifier.concurrency"
	KeyClassifierRate       = "classifier.rate"
	KeyClassifierTimeout    = "classifier.timeout"
	KeyPlacesAPIKey         = "places.api_key"
	KeyAuthToken            = "auth.token"
)

// SettingKeys returns every recognised setting key.
func SettingKeys() []string {
	return []string{
		KeyBackendMode,
		KeyBackendURL,
		KeyBackendTimeout,
		KeyStorageDataDir,
		KeyClassifierProvider,
		KeyClassifierModel,
		KeyClassifierBaseURL,
		KeyClassifierAPIKey,
		KeyClassifierConcurrent,
		KeyClassifierRate,
		KeyClassifierTimeout,
		KeyPlacesAPIKey,
		KeyAuthToken,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	overlay     driven.SettingsOverlay
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// SetOverlay sets the overrides applied on top of stored settings,
// typically environment variables.
func (s *SettingsService) SetOverlay(overlay driven.SettingsOverlay) {
	s.overlay = overlay
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			Mode:    s.getBackendMode(defaults.Backend.Mode),
			URL:     s.getString(KeyBackendURL, defaults.Backend.URL),
			Timeout: s.getDuration(KeyBackendTimeout, defaults.Backend.Timeout),
			DataDir: s.configStore.GetString(KeyStorageDataDir), // Empty means ~/.dishsafe/data
		},
		Classifier: domain.ClassifierSettings{
			Provider:      s.getProvider(defaults.Classifier.Provider),
			Model:         s.getString(KeyClassifierModel, defaults.Classifier.Model),
			BaseURL:       s.configStore.GetString(KeyClassifierBaseURL),
			APIKey:        s.configStore.GetString(KeyClassifierAPIKey),
			Concurrency:   s.getInt(KeyClassifierConcurrent, defaults.Classifier.Concurrency),
			RatePerSecond: s.configStore.GetFloat(KeyClassifierRate),
			Timeout:       s.getDuration(KeyClassifierTimeout, defaults.Classifier.Timeout),
		},
		Places: domain.PlacesSettings{
			APIKey: s.configStore.GetString(KeyPlacesAPIKey),
		},
		Auth: domain.AuthSettings{
			Token: s.configStore.GetString(KeyAuthToken),
		},
	}

	if s.overlay != nil {
		if err := s.overlay.Apply(settings); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}

	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	stored, err := parseSetting(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a stored setting so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrValidation, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Validate checks that the effective settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Backend.Mode.IsValid() {
		return fmt.Errorf("invalid backend mode: %s", settings.Backend.Mode)
	}
	if settings.Backend.Mode == domain.BackendModeRemote && settings.Backend.URL == "" {
		return fmt.Errorf("backend mode %q requires %s", settings.Backend.Mode.Description(), KeyBackendURL)
	}
	if settings.Classifier.Provider == domain.ClassifierProviderBackend &&
		settings.Backend.Mode != domain.BackendModeRemote {
		return fmt.Errorf("classifier provider %q requires the remote backend",
			settings.Classifier.Provider.Description())
	}
	if !settings.Classifier.IsConfigured() {
		return fmt.Errorf("classifier provider %q is not configured (missing API key?)",
			settings.Classifier.Provider.Description())
	}
	return nil
}

// parseSetting converts a CLI string into the value stored for key.
func parseSetting(key, value string) (any, error) {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %s %s", domain.ErrValidation, key, reason)
	}

	switch key {
	case KeyBackendMode:
		if !domain.BackendMode(value).IsValid() {
			return nil, invalid("must be one of remote, local")
		}
		return value, nil
	case KeyClassifierProvider:
		if !domain.ClassifierProvider(value).IsValid() {
			return nil, invalid("must be one of backend, openai")
		}
		return value, nil
	case KeyBackendURL, KeyClassifierBaseURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, invalid("must be an absolute URL")
		}
		return value, nil
	case KeyBackendTimeout, KeyClassifierTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return nil, invalid("must be a positive duration such as 10s")
		}
		return value, nil
	case KeyClassifierConcurrent:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return nil, invalid("must be a positive integer")
		}
		return int64(n), nil
	case KeyClassifierRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, invalid("must be a non-negative number")
		}
		return f, nil
	case KeyStorageDataDir, KeyClassifierModel, KeyClassifierAPIKey, KeyPlacesAPIKey, KeyAuthToken:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrValidation, key)
	}
}

func isSettingKey(key string) bool {
	for _, k := range SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBackendMode(defaultVal domain.BackendMode) domain.BackendMode {
	mode := domain.BackendMode(s.configStore.GetString(KeyBackendMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(defaultVal domain.ClassifierProvider) domain.ClassifierProvider {
	provider := domain.ClassifierProvider(s.configStore.GetString(KeyClassifierProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
