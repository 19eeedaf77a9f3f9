package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

var _ driven.ReviewStore = (*ReviewStore)(nil)

// ReviewStore implements driven.ReviewStore against the backend's /reviews/ endpoints.
type ReviewStore struct {
	client *Client
}

// Create records a new review. The backend attributes it to the token's user.
func (s *ReviewStore) Create(ctx context.Context, cred domain.Credential, draft domain.ReviewDraft) (string, error) {
	payload := struct {
		DishID       string   `json:"dish_id"`
		RestaurantID string   `json:"restaurant_id"`
		Allergies    []string `json:"allergies"`
		Restrictions []string `json:"restrictions"`
		Comment      string   `json:"comment"`
	}{
		DishID:       draft.DishID,
		RestaurantID: draft.RestaurantID,
		Allergies:    nonNil(draft.Allergies),
		Restrictions: nonNil(draft.Restrictions),
		Comment:      draft.Comment,
	}

	req, err := jsonRequest(http.MethodPost, "/reviews/", &cred, payload)
	if err != nil {
		return "", err
	}

	var created createdJSON
	if err := s.client.do(ctx, req, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: POST /reviews/ returned no id", domain.ErrNetwork)
	}
	return created.ID, nil
}

// ListByDish returns the reviews for a dish, oldest first.
func (s *ReviewStore) ListByDish(ctx context.Context, dishID string) ([]domain.Review, error) {
	var out []reviewJSON
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/reviews/dish/" + url.PathEscape(dishID),
	}, &out)
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(out))
	for _, r := range out {
		reviews = append(reviews, r.toDomain())
	}
	return reviews, nil
}
