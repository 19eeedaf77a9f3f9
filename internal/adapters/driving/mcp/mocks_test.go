package mcp

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
)

// mockSafetyService is a mock implementation of driving.SafetyAnnotator.
type mockSafetyService struct {
	view  *driving.DishView
	err   error
	calls int
}

func (m *mockSafetyService) Annotate(
	_ context.Context,
	_ []string,
	reviews []domain.Review,
) []domain.AnnotatedReview {
	out := make([]domain.AnnotatedReview, len(reviews))
	for i := range reviews {
		out[i] = domain.AnnotatedReview{Review: reviews[i], SafeCategories: []string{}}
	}
	return out
}

func (m *mockSafetyService) DishReviews(_ context.Context, _ string) (*driving.DishView, error) {
	m.calls++
	return m.view, m.err
}

// mockRestaurantCatalog is a mock implementation of driving.RestaurantCatalog.
type mockRestaurantCatalog struct {
	candidates []domain.PlaceCandidate
	restaurant *domain.Restaurant
	err        error
}

func (m *mockRestaurantCatalog) Search(_ context.Context, _, _ string) ([]domain.PlaceCandidate, error) {
	return m.candidates, m.err
}

func (m *mockRestaurantCatalog) Register(
	_ context.Context,
	_ domain.Credential,
	_ domain.PlaceCandidate,
) (*domain.Restaurant, error) {
	return m.restaurant, m.err
}

func (m *mockRestaurantCatalog) Get(_ context.Context, _ string) (*domain.Restaurant, error) {
	return m.restaurant, m.err
}
