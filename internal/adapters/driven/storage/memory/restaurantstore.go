package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/dishname"
)

// Ensure RestaurantStore implements the interfaces.
var (
	_ driven.RestaurantStore = (*RestaurantStore)(nil)
	_ driven.PlaceSearch     = (*RestaurantStore)(nil)
)

// RestaurantStore is an in-memory implementation of driven.RestaurantStore.
// It also answers place searches from the restaurants registered so far.
type RestaurantStore struct {
	mu          sync.RWMutex
	restaurants map[string]domain.Restaurant
	byPlace     map[string]string
	order       []string
}

// NewRestaurantStore creates a new in-memory restaurant store.
func NewRestaurantStore() *RestaurantStore {
	return &RestaurantStore{
		restaurants: make(map[string]domain.Restaurant),
		byPlace:     make(map[string]string),
	}
}

// Get retrieves a restaurant by ID.
func (s *RestaurantStore) Get(_ context.Context, id string) (*domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.restaurants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Menu = append([]domain.DishRef{}, r.Menu...)
	return &r, nil
}

// Register returns the restaurant for the candidate's place, creating it if absent.
func (s *RestaurantStore) Register(
	_ context.Context, _ domain.Credential, candidate domain.PlaceCandidate,
) (*domain.Restaurant, error) {
	if candidate.Place.PlaceID == "" {
		return nil, domain.NewValidationError("place id", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byPlace[candidate.Place.PlaceID]; ok {
		r := s.restaurants[id]
		r.Menu = append([]domain.DishRef{}, r.Menu...)
		return &r, nil
	}

	r := domain.Restaurant{
		ID:        uuid.New().String(),
		Name:      candidate.Name,
		Place:     candidate.Place,
		Menu:      []domain.DishRef{},
		CreatedAt: time.Now(),
	}
	s.restaurants[r.ID] = r
	s.byPlace[candidate.Place.PlaceID] = r.ID
	s.order = append(s.order, r.ID)
	return &r, nil
}

// SearchPlaces matches registered restaurants whose name contains name and
// whose address contains town, ignoring case.
func (s *RestaurantStore) SearchPlaces(_ context.Context, town, name string) ([]domain.PlaceCandidate, error) {
	wantName := dishname.Key(name)
	wantTown := dishname.Key(town)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.PlaceCandidate{}
	for _, id := range s.order {
		r := s.restaurants[id]
		if !strings.Contains(dishname.Key(r.Name), wantName) {
			continue
		}
		if !strings.Contains(dishname.Key(r.Place.Address), wantTown) {
			continue
		}
		results = append(results, domain.PlaceCandidate{
			RestaurantID: r.ID,
			Name:         r.Name,
			Place:        r.Place,
		})
		if len(results) == domain.MaxPlaceResults {
			break
		}
	}
	return results, nil
}

// exists reports whether a restaurant is registered under id.
func (s *RestaurantStore) exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.restaurants[id]
	return ok
}

// addMenuItem appends a dish reference to the restaurant's menu.
func (s *RestaurantStore) addMenuItem(restaurantID string, ref domain.DishRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.restaurants[restaurantID]
	if !ok {
		return
	}
	r.Menu = append(r.Menu, ref)
	s.restaurants[restaurantID] = r
}
