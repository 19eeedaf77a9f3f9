package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// Ensure RestaurantService implements the interface.
var _ driving.RestaurantCatalog = (*RestaurantService)(nil)

// RestaurantService looks up and registers restaurants.
type RestaurantService struct {
	restaurants driven.RestaurantStore
	places      driven.PlaceSearch
	timeout     time.Duration
}

// NewRestaurantService creates a new restaurant service.
// The places parameter is optional (can be nil).
func NewRestaurantService(restaurants driven.RestaurantStore, places driven.PlaceSearch) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		places:      places,
		timeout:     domain.DefaultBackendTimeout,
	}
}

// SetTimeout sets the deadline for each backend call.
func (s *RestaurantService) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Search returns place candidates for name in town.
func (s *RestaurantService) Search(ctx context.Context, town, name string) ([]domain.PlaceCandidate, error) {
	if s.places == nil {
		return nil, domain.ErrNotImplemented
	}
	town, name = strings.TrimSpace(town), strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if town == "" {
		return nil, domain.NewValidationError("town", "must not be empty")
	}

	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	logger.Debug("Searching places: name=%q town=%q", name, town)
	candidates, err := s.places.SearchPlaces(callCtx, town, name)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", classifyCallErr(err))
	}
	logger.Debug("Place search returned %d candidates", len(candidates))
	return candidates, nil
}

// Register returns the restaurant for the candidate, creating it if absent.
// A candidate that already carries a restaurant ID is fetched instead.
func (s *RestaurantService) Register(
	ctx context.Context, cred domain.Credential, candidate domain.PlaceCandidate,
) (*domain.Restaurant, error) {
	if s.restaurants == nil {
		return nil, domain.ErrNotImplemented
	}
	if candidate.IsResolved() {
		return s.Get(ctx, candidate.RestaurantID)
	}
	if strings.TrimSpace(candidate.Name) == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if candidate.Place.PlaceID == "" {
		return nil, domain.NewValidationError("place id", "must not be empty")
	}
	if cred.IsZero() {
		return nil, fmt.Errorf("%w: no credential supplied", domain.ErrNotAuthorized)
	}

	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	restaurant, err := s.restaurants.Register(callCtx, cred, candidate)
	if err != nil {
		return nil, fmt.Errorf("register restaurant %q: %w", candidate.Name, classifyCallErr(err))
	}
	logger.Info("Restaurant %q registered as %s", restaurant.Name, restaurant.ID)
	return restaurant, nil
}

// Get retrieves a restaurant with its menu.
func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	if s.restaurants == nil {
		return nil, domain.ErrNotImplemented
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("restaurant id", "must not be empty")
	}

	callCtx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	restaurant, err := s.restaurants.Get(callCtx, id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, classifyCallErr(err))
	}
	return restaurant, nil
}
