package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

var (
	_ driven.RestaurantStore = (*RestaurantStore)(nil)
	_ driven.PlaceSearch     = (*RestaurantStore)(nil)
)

// RestaurantStore implements driven.RestaurantStore and driven.PlaceSearch
// against the backend's /restaurants/ endpoints.
type RestaurantStore struct {
	client *Client
}

// Get retrieves a restaurant with its menu.
func (s *RestaurantStore) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	var out restaurantJSON
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/restaurants/" + url.PathEscape(id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// Register creates the restaurant for the candidate's place. The backend
// returns the existing record's ID when the place is already registered.
func (s *RestaurantStore) Register(
	ctx context.Context, cred domain.Credential, candidate domain.PlaceCandidate,
) (*domain.Restaurant, error) {
	payload := struct {
		Name       string    `json:"name"`
		GoogleData placeData `json:"google_data"`
	}{
		Name:       candidate.Name,
		GoogleData: fromPlaceData(candidate.Place),
	}

	req, err := jsonRequest(http.MethodPost, "/restaurants/", &cred, payload)
	if err != nil {
		return nil, err
	}

	var created createdJSON
	if err := s.client.do(ctx, req, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: POST /restaurants/ returned no id", domain.ErrNetwork)
	}
	return s.Get(ctx, created.ID)
}

// SearchPlaces queries the place provider through the backend.
// The backend answers null when the provider has no results.
func (s *RestaurantStore) SearchPlaces(ctx context.Context, town, name string) ([]domain.PlaceCandidate, error) {
	var places []placeJSON
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/restaurants/search/",
		query:  url.Values{"town": {town}, "name": {name}},
	}, &places)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.PlaceCandidate, 0, len(places))
	for _, p := range places {
		candidates = append(candidates, p.toDomain())
		if len(candidates) == domain.MaxPlaceResults {
			break
		}
	}
	return candidates, nil
}
