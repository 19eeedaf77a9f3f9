// Package cli provides the dishsafe command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

var (
	version = "dev"
	verbose bool

	accountService    driving.AccountService
	restaurantCatalog driving.RestaurantCatalog
	reviewSubmitter   driving.ReviewSubmitter
	safetyAnnotator   driving.SafetyAnnotator
	settingsService   driving.SettingsService

	defaultCredential domain.Credential
)

// Services groups the driving ports the commands call.
// Any field may be nil; commands that need a missing service fail with
// a "not configured" error.
type Services struct {
	Accounts    driving.AccountService
	Restaurants driving.RestaurantCatalog
	Reviews     driving.ReviewSubmitter
	Safety      driving.SafetyAnnotator
	Settings    driving.SettingsService

	// DefaultCredential is used by write commands when neither --token
	// nor a stored session token is present. Local mode sets it because
	// the local database has no accounts.
	DefaultCredential domain.Credential
}

var rootCmd = &cobra.Command{
	Use:   "dishsafe",
	Short: "Dish reviews with dietary safety annotations",
	Long: `Dishsafe records dish reviews at restaurants and shows, for every review,
which of the dish's allergy and restriction tags the reviewer's comment
indicates are safe.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print workflow steps to stderr")
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	accountService = s.Accounts
	restaurantCatalog = s.Restaurants
	reviewSubmitter = s.Reviews
	safetyAnnotator = s.Safety
	settingsService = s.Settings
	defaultCredential = s.DefaultCredential
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// displayError shows the user-facing message for a failure while keeping
// the underlying error available to errors.Is and errors.As.
type displayError struct {
	err error
}

func (e *displayError) Error() string {
	return domain.UserMessage(e.err)
}

func (e *displayError) Unwrap() error {
	return e.err
}

// userError wraps err for display. Nil stays nil.
func userError(err error) error {
	if err == nil {
		return nil
	}
	var shown *displayError
	if errors.As(err, &shown) {
		return err
	}
	return &displayError{err: err}
}
