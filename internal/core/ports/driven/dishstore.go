package driven

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// DishStore provides access to dish records.
//
// Dish names are matched case-insensitively after Unicode normalisation, and
// at most one dish exists per (restaurant, normalised name).
type DishStore interface {
	// Get retrieves a dish by ID.
	// Returns domain.ErrNotFound if the identifier does not resolve.
	Get(ctx context.Context, id string) (*domain.Dish, error)

	// FindByName looks up a dish by name within a restaurant.
	// Returns domain.ErrNotFound when no dish matches.
	FindByName(ctx context.Context, restaurantID, name string) (*domain.Dish, error)

	// Create inserts the dish unless one with the same normalised name already
	// exists under the restaurant, in which case the existing ID is returned
	// with Created=false. The check and insert are atomic.
	Create(ctx context.Context, cred domain.Credential, draft domain.DishDraft) (domain.DishResolution, error)
}
