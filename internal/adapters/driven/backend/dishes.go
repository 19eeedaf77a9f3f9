package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

var _ driven.DishStore = (*DishStore)(nil)

// DishStore implements driven.DishStore against the backend's /dishes/ endpoints.
type DishStore struct {
	client *Client
}

// Get retrieves a dish by ID.
func (s *DishStore) Get(ctx context.Context, id string) (*domain.Dish, error) {
	var out dishJSON
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/dishes/" + url.PathEscape(id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// FindByName looks up a dish by name within a restaurant. The backend
// matches names case-insensitively and answers 404 when none matches.
func (s *DishStore) FindByName(ctx context.Context, restaurantID, name string) (*domain.Dish, error) {
	var out dishJSON
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/dishes/search/",
		query:  url.Values{"restaurant_id": {restaurantID}, "name": {name}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// Create asks the backend to insert the dish unless one with the same
// normalised name exists under the restaurant.
func (s *DishStore) Create(
	ctx context.Context, cred domain.Credential, draft domain.DishDraft,
) (domain.DishResolution, error) {
	payload := struct {
		Name         string   `json:"name"`
		ImageURL     string   `json:"image_url,omitempty"`
		RestaurantID string   `json:"restaurant_id"`
		Allergies    []string `json:"allergies"`
		Restrictions []string `json:"restrictions"`
	}{
		Name:         draft.Name,
		ImageURL:     draft.ImageURL,
		RestaurantID: draft.RestaurantID,
		Allergies:    nonNil(draft.AllergyTags),
		Restrictions: nonNil(draft.RestrictionTags),
	}

	req, err := jsonRequest(http.MethodPost, "/dishes/", &cred, payload)
	if err != nil {
		return domain.DishResolution{}, err
	}

	var created createdJSON
	if err := s.client.do(ctx, req, &created); err != nil {
		return domain.DishResolution{}, err
	}
	if created.ID == "" {
		return domain.DishResolution{}, fmt.Errorf("%w: POST /dishes/ returned no id", domain.ErrNetwork)
	}

	// Backends that predate the upsert always insert.
	wasCreated := created.Created == nil || *created.Created
	return domain.DishResolution{DishID: created.ID, Created: wasCreated}, nil
}
