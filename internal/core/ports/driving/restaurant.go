package driving

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// RestaurantCatalog looks up and registers restaurants.
type RestaurantCatalog interface {
	// Search returns place candidates for name in town.
	Search(ctx context.Context, town, name string) ([]domain.PlaceCandidate, error)

	// Register returns the restaurant for the candidate, creating it if absent.
	Register(ctx context.Context, cred domain.Credential, candidate domain.PlaceCandidate) (*domain.Restaurant, error)

	// Get retrieves a restaurant with its menu.
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
}
