package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/services"
)

const testToken = "tok-123"

// keywordClassifier marks a tag safe when the comment says "no <tag>" or
// "without <tag>".
type keywordClassifier struct{}

func (keywordClassifier) Classify(_ context.Context, comment string, tags []string) ([]string, error) {
	lower := strings.ToLower(comment)
	safe := []string{}
	for _, tag := range tags {
		t := strings.ToLower(tag)
		if strings.Contains(lower, "no "+t) || strings.Contains(lower, "without "+t) {
			safe = append(safe, tag)
		}
	}
	return safe, nil
}

// staticPlaces returns fixed search candidates.
type staticPlaces []domain.PlaceCandidate

func (p staticPlaces) SearchPlaces(_ context.Context, _, _ string) ([]domain.PlaceCandidate, error) {
	return p, nil
}

// fakeAccounts is an in-memory account gateway. Tokens are "jwt-<email>".
type fakeAccounts struct {
	passwords map[string]string
}

func (f *fakeAccounts) SignUp(_ context.Context, reg domain.Registration) error {
	if _, ok := f.passwords[reg.Email]; ok {
		return fmt.Errorf("%w: POST /sign_up returned 400: Email already registered", domain.ErrValidation)
	}
	f.passwords[reg.Email] = reg.Password
	return nil
}

func (f *fakeAccounts) Login(_ context.Context, login domain.Login) (string, error) {
	if pw, ok := f.passwords[login.Email]; !ok || pw != login.Password {
		return "", fmt.Errorf("%w: POST /login returned 401: Invalid email or password", domain.ErrNotAuthorized)
	}
	return "jwt-" + login.Email, nil
}

// testServices holds the stores behind the wired services.
type testServices struct {
	accounts    *fakeAccounts
	restaurants *memory.RestaurantStore
	dishes      *memory.DishStore
	reviews     *memory.ReviewStore
	images      *memory.ImageStore
	config      *memory.ConfigStore
	places      staticPlaces
	wired       Services
}

// setupTestServices wires the real services over memory stores.
// The returned cleanup restores unconfigured commands.
func setupTestServices(t *testing.T, places ...domain.PlaceCandidate) (*testServices, func()) {
	t.Helper()

	ts := &testServices{
		restaurants: memory.NewRestaurantStore(),
		images:      memory.NewImageStore(),
		config:      memory.NewConfigStore(),
		places:      staticPlaces(places),
		accounts:    &fakeAccounts{passwords: map[string]string{}},
	}
	ts.dishes = memory.NewDishStore(ts.restaurants)
	ts.reviews = memory.NewReviewStore(ts.dishes)

	var search driven.PlaceSearch = ts.restaurants
	if len(places) > 0 {
		search = ts.places
	}

	settings := services.NewSettingsService(ts.config)
	require.NoError(t, settings.Set(services.KeyAuthToken, testToken))

	ts.wired = Services{
		Accounts:    services.NewAccountService(ts.accounts, settings),
		Restaurants: services.NewRestaurantService(ts.restaurants, search),
		Reviews: services.NewReviewSubmissionService(
			ts.restaurants,
			ts.dishes,
			services.NewImageUploader(ts.images),
			services.NewReviewRecorder(ts.reviews),
		),
		Safety:   services.NewSafetyAnnotationService(keywordClassifier{}, ts.dishes, ts.reviews),
		Settings: settings,
	}
	SetServices(ts.wired)

	return ts, func() { SetServices(Services{}) }
}

// localMode rewires the commands the way local mode does: no stored
// session token and a default credential for writes.
func (ts *testServices) localMode(t *testing.T, cred domain.Credential) {
	t.Helper()
	require.NoError(t, ts.config.Unset("auth.token"))
	ts.wired.DefaultCredential = cred
	SetServices(ts.wired)
}

// registerRestaurant adds a restaurant directly to the store.
func (ts *testServices) registerRestaurant(t *testing.T, name, address string) *domain.Restaurant {
	t.Helper()
	r, err := ts.restaurants.Register(context.Background(), domain.Credential{Token: testToken}, domain.PlaceCandidate{
		Name:  name,
		Place: domain.PlaceData{PlaceID: "place-" + name, Address: address},
	})
	require.NoError(t, err)
	return r
}

// executeCommand runs the root command with args and returns its output.
// Flags are reset first so values never leak between tests.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, "", args...)
}

// executeCommandWithInput runs the root command with input as stdin.
func executeCommandWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}
