// Package environ overlays environment variables on top of stored settings.
package environ

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// Ensure Overlay implements the interface.
var _ driven.SettingsOverlay = (*Overlay)(nil)

// variables lists the recognised environment variables.
// Unset variables leave the stored value in place.
type variables struct {
	BackendMode        *string        `env:"DISHSAFE_BACKEND_MODE"`
	BackendURL         *string        `env:"DISHSAFE_BACKEND_URL"`
	BackendTimeout     *time.Duration `env:"DISHSAFE_BACKEND_TIMEOUT"`
	DataDir            *string        `env:"DISHSAFE_DATA_DIR"`
	Token              *string        `env:"DISHSAFE_TOKEN"`
	ClassifierProvider *string        `env:"DISHSAFE_CLASSIFIER_PROVIDER"`
	ClassifierModel    *string        `env:"DISHSAFE_CLASSIFIER_MODEL"`
	ClassifierBaseURL  *string        `env:"DISHSAFE_CLASSIFIER_BASE_URL"`
	ClassifierTimeout  *time.Duration `env:"DISHSAFE_CLASSIFIER_TIMEOUT"`
	Concurrency        *int           `env:"DISHSAFE_CLASSIFIER_CONCURRENCY"`
	Rate               *float64       `env:"DISHSAFE_CLASSIFIER_RATE"`
	OpenAIKey          *string        `env:"OPENAI_API_KEY"`
	PlacesKey          *string        `env:"GOOGLE_MAPS_API_KEY"`
}

// Overlay reads DISHSAFE_* variables, OPENAI_API_KEY and GOOGLE_MAPS_API_KEY.
type Overlay struct {
	environ map[string]string
}

// NewOverlay creates an overlay over the process environment.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// NewOverlayFromMap creates an overlay over a fixed environment.
func NewOverlayFromMap(environ map[string]string) *Overlay {
	return &Overlay{environ: environ}
}

// Apply copies every set variable onto settings.
// A malformed value fails the whole overlay with domain.ErrValidation.
func (o *Overlay) Apply(settings *domain.AppSettings) error {
	var vars variables
	opts := env.Options{}
	if o.environ != nil {
		opts.Environment = o.environ
	}
	if err := env.ParseWithOptions(&vars, opts); err != nil {
		return fmt.Errorf("%w: environment: %w", domain.ErrValidation, err)
	}

	if vars.BackendMode != nil {
		mode := domain.BackendMode(*vars.BackendMode)
		if !mode.IsValid() {
			return fmt.Errorf("%w: DISHSAFE_BACKEND_MODE %q", domain.ErrValidation, *vars.BackendMode)
		}
		settings.Backend.Mode = mode
	}
	if vars.BackendURL != nil {
		if err := checkURL("DISHSAFE_BACKEND_URL", *vars.BackendURL); err != nil {
			return err
		}
		settings.Backend.URL = *vars.BackendURL
	}
	if vars.BackendTimeout != nil {
		if *vars.BackendTimeout <= 0 {
			return fmt.Errorf("%w: DISHSAFE_BACKEND_TIMEOUT must be positive", domain.ErrValidation)
		}
		settings.Backend.Timeout = *vars.BackendTimeout
	}
	if vars.DataDir != nil {
		settings.Backend.DataDir = *vars.DataDir
	}
	if vars.Token != nil {
		settings.Auth.Token = *vars.Token
	}

	if vars.ClassifierProvider != nil {
		provider := domain.ClassifierProvider(*vars.ClassifierProvider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: DISHSAFE_CLASSIFIER_PROVIDER %q", domain.ErrValidation, *vars.ClassifierProvider)
		}
		settings.Classifier.Provider = provider
	}
	if vars.ClassifierModel != nil {
		settings.Classifier.Model = *vars.ClassifierModel
	}
	if vars.ClassifierBaseURL != nil {
		if err := checkURL("DISHSAFE_CLASSIFIER_BASE_URL", *vars.ClassifierBaseURL); err != nil {
			return err
		}
		settings.Classifier.BaseURL = *vars.ClassifierBaseURL
	}
	if vars.ClassifierTimeout != nil {
		if *vars.ClassifierTimeout <= 0 {
			return fmt.Errorf("%w: DISHSAFE_CLASSIFIER_TIMEOUT must be positive", domain.ErrValidation)
		}
		settings.Classifier.Timeout = *vars.ClassifierTimeout
	}
	if vars.Concurrency != nil {
		if *vars.Concurrency < 1 {
			return fmt.Errorf("%w: DISHSAFE_CLASSIFIER_CONCURRENCY must be at least 1", domain.ErrValidation)
		}
		settings.Classifier.Concurrency = *vars.Concurrency
	}
	if vars.Rate != nil {
		if *vars.Rate < 0 {
			return fmt.Errorf("%w: DISHSAFE_CLASSIFIER_RATE must not be negative", domain.ErrValidation)
		}
		settings.Classifier.RatePerSecond = *vars.Rate
	}
	if vars.OpenAIKey != nil {
		settings.Classifier.APIKey = *vars.OpenAIKey
	}
	if vars.PlacesKey != nil {
		settings.Places.APIKey = *vars.PlacesKey
	}

	return nil
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL", domain.ErrValidation, name)
	}
	return nil
}
