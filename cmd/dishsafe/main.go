// Command dishsafe records dish reviews and shows which dietary tags each
// review's comment indicates are safe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/ai"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/auth"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/backend"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/config/environ"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/places/google"
	"github.com/custodia-labs/dishsafe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dishsafe/internal/adapters/driving/cli"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/services"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Wiring logs before cobra parses flags.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
		}
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		return 1
	}

	settingsService := services.NewSettingsService(configStore)
	settingsService.SetOverlay(environ.NewOverlay())

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stores, err := openStores(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := stores.close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: close storage: %v\n", err)
		}
	}()

	classifier := openClassifier(settings, stores)

	restaurantService := services.NewRestaurantService(stores.restaurants, stores.places)
	restaurantService.SetTimeout(settings.Backend.Timeout)

	uploader := services.NewImageUploader(stores.images)
	uploader.SetTimeout(settings.Backend.Timeout)
	recorder := services.NewReviewRecorder(stores.reviews)
	recorder.SetTimeout(settings.Backend.Timeout)

	submissionService := services.NewReviewSubmissionService(stores.restaurants, stores.dishes, uploader, recorder)
	submissionService.SetTimeout(settings.Backend.Timeout)
	if stores.inspector != nil {
		submissionService.SetCredentialInspector(stores.inspector)
	}

	accountService := services.NewAccountService(stores.accounts, settingsService)
	accountService.SetTimeout(settings.Backend.Timeout)
	if stores.inspector != nil {
		accountService.SetCredentialInspector(stores.inspector)
	}

	safetyService := services.NewSafetyAnnotationService(classifier, stores.dishes, stores.reviews)
	safetyService.SetConcurrency(settings.Classifier.Concurrency)
	safetyService.SetRateLimit(settings.Classifier.RatePerSecond, settings.Classifier.Concurrency)
	safetyService.SetTimeout(settings.Classifier.Timeout)
	safetyService.SetLookupTimeout(settings.Backend.Timeout)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Accounts:    accountService,
		Restaurants: restaurantService,
		Reviews:     submissionService,
		Safety:      safetyService,
		Settings:    settingsService,

		DefaultCredential: stores.credential,
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// localCredential signs local writes; the local database has no accounts.
var localCredential = domain.Credential{Token: "local", Subject: "local"}

// storeSet holds the driven adapters selected by backend.mode.
type storeSet struct {
	restaurants driven.RestaurantStore
	places      driven.PlaceSearch
	dishes      driven.DishStore
	reviews     driven.ReviewStore
	images      driven.ImageStore
	accounts    driven.AccountGateway
	inspector   driven.CredentialInspector
	credential  domain.Credential
	remote      *backend.Client
	close       func() error
}

func openStores(settings *domain.AppSettings) (*storeSet, error) {
	switch settings.Backend.Mode {
	case domain.BackendModeLocal:
		store, err := sqlite.NewStore(settings.Backend.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open local database: %w", err)
		}
		logger.Debug("Using local database %s", store.Path())
		restaurants := store.RestaurantStore()
		return &storeSet{
			restaurants: restaurants,
			places:      localPlaces(settings, restaurants),
			dishes:      store.DishStore(),
			reviews:     store.ReviewStore(),
			images:      store.ImageStore(),
			credential:  localCredential,
			close:       store.Close,
		}, nil

	default:
		client, err := backend.NewClient(backend.Config{
			BaseURL: settings.Backend.URL,
			Timeout: settings.Backend.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure backend: %w", err)
		}
		logger.Debug("Using backend %s", client.BaseURL())
		restaurants := client.Restaurants()
		return &storeSet{
			restaurants: restaurants,
			places:      restaurants,
			dishes:      client.Dishes(),
			reviews:     client.Reviews(),
			images:      client.Images(),
			accounts:    client.Accounts(),
			inspector:   auth.NewJWTInspector(nil),
			remote:      client,
			close:       func() error { return nil },
		}, nil
	}
}

// localPlaces searches Google Places when a key is configured and the
// local database otherwise.
func localPlaces(settings *domain.AppSettings, registered driven.PlaceSearch) driven.PlaceSearch {
	if settings.Places.APIKey == "" {
		return registered
	}
	search, err := google.NewSearch(context.Background(), google.Config{APIKey: settings.Places.APIKey})
	if err != nil {
		logger.Warn("%v; searching the local database instead", err)
		return registered
	}
	logger.Debug("Using Google Places for restaurant search")
	return search
}

// openClassifier returns the configured classifier, or nil when it cannot
// be used. Without a classifier every review shows no safe tags.
func openClassifier(settings *domain.AppSettings, stores *storeSet) driven.SafetyClassifier {
	var prompts driven.PromptStore
	if settings.Classifier.Provider == domain.ClassifierProviderOpenAI {
		if store, err := file.NewPromptStore(""); err == nil {
			prompts = store
		}
	}

	classifier, err := ai.CreateClassifier(&settings.Classifier, stores.remote, prompts)
	if err != nil {
		logger.Warn("%v; reviews will show no safe tags", err)
		return nil
	}
	return classifier
}
