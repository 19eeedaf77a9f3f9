package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.dishsafe/config.toml.

Environment variables (DISHSAFE_BACKEND_URL, DISHSAFE_TOKEN, OPENAI_API_KEY,
...) override stored values.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a setting",
	Long: `Store a setting.

Keys:
  backend.mode            remote | local
  backend.url             base URL of the Dishsafe service
  backend.timeout         per-call timeout, e.g. 10s
  storage.data_dir        local database directory
  classifier.provider     backend | openai
  classifier.model        OpenAI model name
  classifier.base_url     OpenAI-compatible endpoint
  classifier.api_key      OpenAI API key
  classifier.concurrency  classification calls in flight per dish view
  classifier.rate         classification calls per second, 0 for unlimited
  classifier.timeout      per-call timeout, e.g. 30s
  places.api_key          Google Maps key for local-mode place search
  auth.token              bearer token for write calls`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a stored setting so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("[Backend]")
	cmd.Printf("  Mode: %s\n", settings.Backend.Mode.Description())
	cmd.Printf("  URL: %s\n", settings.Backend.URL)
	cmd.Printf("  Timeout: %s\n", settings.Backend.Timeout)
	cmd.Printf("  Data dir: %s\n", orDefault(settings.Backend.DataDir, "(default)"))
	cmd.Println()

	cmd.Println("[Classifier]")
	cmd.Printf("  Provider: %s\n", settings.Classifier.Provider.Description())
	if settings.Classifier.Provider.RequiresAPIKey() {
		cmd.Printf("  Model: %s\n", settings.Classifier.Model)
		cmd.Printf("  Base URL: %s\n", orDefault(settings.Classifier.BaseURL, "(default)"))
		if settings.Classifier.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Classifier.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Concurrency: %d\n", settings.Classifier.Concurrency)
	if settings.Classifier.RatePerSecond > 0 {
		cmd.Printf("  Rate: %g/s\n", settings.Classifier.RatePerSecond)
	} else {
		cmd.Printf("  Rate: unlimited\n")
	}
	cmd.Printf("  Timeout: %s\n", settings.Classifier.Timeout)
	cmd.Println()

	if settings.Backend.Mode == domain.BackendModeLocal {
		cmd.Println("[Places]")
		if settings.Places.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Places.APIKey))
		} else {
			cmd.Printf("  API Key: (not set, searching the local database)\n")
		}
		cmd.Println()
	}

	cmd.Println("[Auth]")
	if settings.Auth.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.Auth.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s.\n", args[0])
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("Unset %s.\n", args[0])
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
