package driven

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// RestaurantStore provides access to restaurant records.
type RestaurantStore interface {
	// Get retrieves a restaurant by ID with its menu.
	// Returns domain.ErrNotFound if the identifier does not resolve.
	Get(ctx context.Context, id string) (*domain.Restaurant, error)

	// Register returns the restaurant for the candidate's place, creating it if absent.
	// Registration is keyed on the provider place ID and is idempotent.
	Register(ctx context.Context, cred domain.Credential, candidate domain.PlaceCandidate) (*domain.Restaurant, error)
}

// PlaceSearch queries the external place provider for restaurant candidates.
type PlaceSearch interface {
	// SearchPlaces returns up to a handful of candidates matching name in town.
	SearchPlaces(ctx context.Context, town, name string) ([]domain.PlaceCandidate, error)
}
