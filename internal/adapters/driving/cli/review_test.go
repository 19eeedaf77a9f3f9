package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

func TestReviewAddCmd_RequiredFlags(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand(t, "review", "add", "--dish", "Pad Thai")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
}

func TestReviewAddCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, "review", "add", "-r", "r1", "-d", "Pad Thai", "-c", "good")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestReviewAddCmd_CreatesDishAndReview(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	r := ts.registerRestaurant(t, "Thai Palace", "1 Main St, Springfield")

	image := filepath.Join(t.TempDir(), "pad-thai.jpg")
	require.NoError(t, os.WriteFile(image, []byte("\xff\xd8\xff\xe0jpeg"), 0600))

	out, err := executeCommand(t, "review", "add",
		"--restaurant", r.ID,
		"--dish", "Pad Thai",
		"--image", image,
		"--restrictions", "peanuts, gluten",
		"--comment", "Made without peanuts")

	require.NoError(t, err)
	assert.Contains(t, out, "recorded")
	assert.Contains(t, out, "(new)")
	assert.Contains(t, out, "Image: memory://images/")
	assert.Equal(t, 1, ts.dishes.Count())
	assert.Equal(t, 1, ts.reviews.Count())
	assert.Equal(t, 1, ts.images.Count())
}

func TestReviewAddCmd_ReusesDish(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	r := ts.registerRestaurant(t, "Thai Palace", "Springfield")

	_, err := executeCommand(t, "review", "add", "-r", r.ID, "-d", "Pad Thai", "-c", "first")
	require.NoError(t, err)

	out, err := executeCommand(t, "review", "add", "-r", r.ID, "-d", "  pad   THAI ", "-c", "second", "--json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, false, result["dish_created"])
	assert.Equal(t, r.ID, result["restaurant_id"])
	assert.Equal(t, 1, ts.dishes.Count())
	assert.Equal(t, 2, ts.reviews.Count())
}

func TestReviewAddCmd_UnknownRestaurant(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand(t, "review", "add", "-r", "missing", "-d", "Pad Thai", "-c", "good")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Failed while looking up the restaurant")
}

func TestReviewAddCmd_NoToken(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	r := ts.registerRestaurant(t, "Thai Palace", "Springfield")
	require.NoError(t, ts.config.Unset("auth.token"))

	_, err := executeCommand(t, "review", "add", "-r", r.ID, "-d", "Pad Thai", "-c", "good")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Contains(t, err.Error(), "Log in and retry")
	assert.Equal(t, 0, ts.dishes.Count())
}

func TestReviewAddCmd_LocalModeWithoutLogin(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	ts.localMode(t, domain.Credential{Token: "local", Subject: "local"})

	_, err := executeCommand(t, "restaurant", "add", "--manual", "-t", "Boston", "-n", "Thai Palace")
	require.NoError(t, err)
	found, err := ts.restaurants.SearchPlaces(t.Context(), "Boston", "Thai Palace")
	require.NoError(t, err)
	require.Len(t, found, 1)
	restaurantID := found[0].RestaurantID

	out, err := executeCommand(t, "review", "add", "-r", restaurantID, "-d", "Pad Thai", "-c", "no peanuts")

	require.NoError(t, err)
	assert.Contains(t, out, "recorded")
	reviews, err := ts.reviews.ListByDish(t.Context(), firstDishID(t, ts, restaurantID))
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "local", reviews[0].UserID)
}

func TestReviewAddCmd_StoredTokenBeatsDefault(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	ts.wired.DefaultCredential = domain.Credential{Token: "local", Subject: "local"}
	SetServices(ts.wired)

	assert.Equal(t, domain.Credential{Token: testToken}, resolveCredential(""))
	assert.Equal(t, domain.Credential{Token: "explicit"}, resolveCredential("explicit"))

	require.NoError(t, ts.config.Unset("auth.token"))
	assert.Equal(t, ts.wired.DefaultCredential, resolveCredential(""))
}

func TestReviewAddCmd_TokenFlag(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	r := ts.registerRestaurant(t, "Thai Palace", "Springfield")
	require.NoError(t, ts.config.Unset("auth.token"))

	_, err := executeCommand(t, "review", "add", "-r", r.ID, "-d", "Pad Thai", "-c", "good", "--token", "explicit")

	require.NoError(t, err)
	reviews, err := ts.reviews.ListByDish(t.Context(), firstDishID(t, ts, r.ID))
	require.NoError(t, err)
	require.Len(t, reviews, 1)
}

func TestReviewAddCmd_MissingImageFile(t *testing.T) {
	ts, cleanup := setupTestServices(t)
	defer cleanup()
	r := ts.registerRestaurant(t, "Thai Palace", "Springfield")

	_, err := executeCommand(t, "review", "add", "-r", r.ID, "-d", "Pad Thai", "-c", "good",
		"--image", filepath.Join(t.TempDir(), "missing.jpg"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read image")
	assert.Equal(t, 0, ts.dishes.Count())
}

func firstDishID(t *testing.T, ts *testServices, restaurantID string) string {
	t.Helper()
	r, err := ts.restaurants.Get(t.Context(), restaurantID)
	require.NoError(t, err)
	require.NotEmpty(t, r.Menu)
	return r.Menu[0].ID
}
