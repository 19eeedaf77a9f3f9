package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendMode_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		mode     BackendMode
		expected bool
	}{
		{name: "remote is valid", mode: BackendModeRemote, expected: true},
		{name: "local is valid", mode: BackendModeLocal, expected: true},
		{name: "empty string is invalid", mode: BackendMode(""), expected: false},
		{name: "unknown mode is invalid", mode: BackendMode("cloud"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.IsValid())
		})
	}
}

func TestBackendMode_Description(t *testing.T) {
	assert.Equal(t, "Remote (Dishsafe service)", BackendModeRemote.Description())
	assert.Equal(t, "Local (SQLite database)", BackendModeLocal.Description())
	assert.Equal(t, "Unknown", BackendMode("x").Description())
}

func TestClassifierProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, ClassifierProviderOpenAI.RequiresAPIKey())
	assert.False(t, ClassifierProviderBackend.RequiresAPIKey())
}

func TestClassifierSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings ClassifierSettings
		expected bool
	}{
		{"backend needs nothing", ClassifierSettings{Provider: ClassifierProviderBackend}, true},
		{"openai without key", ClassifierSettings{Provider: ClassifierProviderOpenAI}, false},
		{"openai with key", ClassifierSettings{Provider: ClassifierProviderOpenAI, APIKey: "sk-test"}, true},
		{"unknown provider", ClassifierSettings{Provider: "other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, BackendModeRemote, settings.Backend.Mode)
	assert.Equal(t, DefaultBackendTimeout, settings.Backend.Timeout)
	assert.Equal(t, ClassifierProviderBackend, settings.Classifier.Provider)
	assert.Equal(t, 4, settings.Classifier.Concurrency)
	assert.Equal(t, DefaultClassifierTimeout, settings.Classifier.Timeout)
	assert.True(t, settings.Classifier.IsConfigured())
	assert.Empty(t, settings.Auth.Token)
}

func TestAllBackendModes(t *testing.T) {
	for _, mode := range AllBackendModes() {
		assert.True(t, mode.IsValid())
	}
	for _, p := range AllClassifierProviders() {
		assert.True(t, p.IsValid())
	}
}
