package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

func newTestSearch(t *testing.T, handler http.HandlerFunc) *Search {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSearch(context.Background(), Config{
		APIKey:     "maps-key",
		Endpoint:   srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return s
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNewSearch_RequiresAPIKey(t *testing.T) {
	_, err := NewSearch(context.Background(), Config{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearch_SearchPlaces(t *testing.T) {
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "maps-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t,
			"places.id,places.displayName,places.formattedAddress,places.nationalPhoneNumber,places.priceLevel,places.rating",
			r.Header.Get("X-Goog-FieldMask"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Thai Palace in Springfield", body["textQuery"])
		assert.Equal(t, "restaurant", body["includedType"])
		assert.EqualValues(t, 5, body["pageSize"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"places": []map[string]any{
				{
					"id":                  "ChIJ-thai",
					"displayName":         map[string]string{"text": "Thai Palace", "languageCode": "en"},
					"formattedAddress":    "1 Main St, Springfield",
					"nationalPhoneNumber": "(555) 010-0100",
					"priceLevel":          "PRICE_LEVEL_MODERATE",
					"rating":              4.5,
				},
				{
					"id":          "ChIJ-bare",
					"displayName": map[string]string{"text": "Thai Palace Express"},
				},
			},
		})
	})

	got, err := s.SearchPlaces(context.Background(), "Springfield", "Thai Palace")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].RestaurantID)
	assert.Equal(t, "Thai Palace", got[0].Name)
	assert.Equal(t, "ChIJ-thai", got[0].Place.PlaceID)
	assert.Equal(t, "1 Main St, Springfield", got[0].Place.Address)
	assert.Equal(t, "(555) 010-0100", got[0].Place.Phone)
	assert.Equal(t, "PRICE_LEVEL_MODERATE", got[0].Place.PriceLevel)
	require.NotNil(t, got[0].Place.Rating)
	assert.InDelta(t, 4.5, *got[0].Place.Rating, 0.001)

	assert.Equal(t, "Thai Palace Express", got[1].Name)
	assert.Nil(t, got[1].Place.Rating)
	assert.Empty(t, got[1].Place.Address)
}

func TestSearch_SearchPlaces_NoResults(t *testing.T) {
	s := newTestSearch(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{})
	})

	got, err := s.SearchPlaces(context.Background(), "Nowhere", "Nothing")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_SearchPlaces_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad key", http.StatusForbidden, domain.ErrNotAuthorized},
		{"bad request", http.StatusBadRequest, domain.ErrValidation},
		{"quota", http.StatusTooManyRequests, domain.ErrNetwork},
		{"server error", http.StatusInternalServerError, domain.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSearch(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.status, map[string]any{
					"error": map[string]any{"code": tt.status, "message": "API key not valid"},
				})
			})

			_, err := s.SearchPlaces(context.Background(), "Springfield", "Thai")

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSearch_SearchPlaces_Timeout(t *testing.T) {
	s := newTestSearch(t, func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.SearchPlaces(ctx, "Springfield", "Thai")

	assert.ErrorIs(t, err, domain.ErrTimeout)
}
