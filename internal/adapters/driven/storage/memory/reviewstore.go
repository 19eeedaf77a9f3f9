package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// Ensure ReviewStore implements the interface.
var _ driven.ReviewStore = (*ReviewStore)(nil)

// ReviewStore is an in-memory implementation of driven.ReviewStore.
type ReviewStore struct {
	mu      sync.RWMutex
	reviews []domain.Review
	dishes  *DishStore
}

// NewReviewStore creates a new in-memory review store.
// When dishes is non-nil, reviews must reference an existing dish at the
// same restaurant.
func NewReviewStore(dishes *DishStore) *ReviewStore {
	return &ReviewStore{
		dishes: dishes,
	}
}

// Create records a new review.
func (s *ReviewStore) Create(ctx context.Context, cred domain.Credential, draft domain.ReviewDraft) (string, error) {
	if s.dishes != nil {
		dish, err := s.dishes.Get(ctx, draft.DishID)
		if err != nil {
			return "", err
		}
		if dish.RestaurantID != draft.RestaurantID {
			return "", domain.NewValidationError("restaurant", "does not match the dish's restaurant")
		}
	}

	review := domain.Review{
		ID:           uuid.New().String(),
		UserID:       cred.Subject,
		DishID:       draft.DishID,
		RestaurantID: draft.RestaurantID,
		Allergies:    append([]string{}, draft.Allergies...),
		Restrictions: append([]string{}, draft.Restrictions...),
		Comment:      draft.Comment,
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, review)
	return review.ID, nil
}

// ListByDish returns the reviews for a dish, oldest first.
func (s *ReviewStore) ListByDish(_ context.Context, dishID string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []domain.Review{}
	for i := range s.reviews {
		if s.reviews[i].DishID == dishID {
			result = append(result, s.reviews[i])
		}
	}
	return result, nil
}

// Count returns the number of stored reviews.
func (s *ReviewStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
