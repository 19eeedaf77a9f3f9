package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/dishname"
)

// Ensure DishStore implements the interface.
var _ driven.DishStore = (*DishStore)(nil)

// DishStore is an in-memory implementation of driven.DishStore.
type DishStore struct {
	mu          sync.RWMutex
	dishes      map[string]domain.Dish
	byKey       map[string]string
	restaurants *RestaurantStore
}

// NewDishStore creates a new in-memory dish store.
// When restaurants is non-nil, dishes must reference a registered restaurant
// and new dishes are appended to its menu.
func NewDishStore(restaurants *RestaurantStore) *DishStore {
	return &DishStore{
		dishes:      make(map[string]domain.Dish),
		byKey:       make(map[string]string),
		restaurants: restaurants,
	}
}

// Get retrieves a dish by ID.
func (s *DishStore) Get(_ context.Context, id string) (*domain.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dish, ok := s.dishes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &dish, nil
}

// FindByName looks up a dish by normalised name within a restaurant.
func (s *DishStore) FindByName(_ context.Context, restaurantID, name string) (*domain.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[menuKey(restaurantID, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	dish := s.dishes[id]
	return &dish, nil
}

// Create inserts the dish unless its normalised name is already taken.
func (s *DishStore) Create(
	_ context.Context, _ domain.Credential, draft domain.DishDraft,
) (domain.DishResolution, error) {
	if dishname.IsBlank(draft.Name) {
		return domain.DishResolution{}, domain.NewValidationError("dish name", "must not be blank")
	}
	if draft.RestaurantID == "" {
		return domain.DishResolution{}, domain.NewValidationError("restaurant", "must not be empty")
	}
	if s.restaurants != nil && !s.restaurants.exists(draft.RestaurantID) {
		return domain.DishResolution{}, domain.ErrNotFound
	}

	key := menuKey(draft.RestaurantID, draft.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[key]; ok {
		return domain.DishResolution{DishID: id, Created: false}, nil
	}

	dish := draft.ToDish(uuid.New().String(), time.Now())
	s.dishes[dish.ID] = dish
	s.byKey[key] = dish.ID
	if s.restaurants != nil {
		s.restaurants.addMenuItem(dish.RestaurantID, domain.DishRef{ID: dish.ID, Name: dish.Name})
	}
	return domain.DishResolution{DishID: dish.ID, Created: true}, nil
}

// Count returns the number of stored dishes.
func (s *DishStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dishes)
}

func menuKey(restaurantID, name string) string {
	return restaurantID + "\x00" + dishname.Key(name)
}
