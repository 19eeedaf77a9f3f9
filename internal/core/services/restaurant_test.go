package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// mockPlaceSearch implements driven.PlaceSearch for testing.
type mockPlaceSearch struct {
	candidates []domain.PlaceCandidate
	err        error
	town, name string
}

func (m *mockPlaceSearch) SearchPlaces(_ context.Context, town, name string) ([]domain.PlaceCandidate, error) {
	m.town, m.name = town, name
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func TestRestaurantService_Search(t *testing.T) {
	places := &mockPlaceSearch{candidates: []domain.PlaceCandidate{
		{Name: "Thai Palace", Place: domain.PlaceData{PlaceID: "p1"}},
	}}
	service := NewRestaurantService(memory.NewRestaurantStore(), places)

	got, err := service.Search(context.Background(), " Springfield ", " Thai ")

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Springfield", places.town)
	assert.Equal(t, "Thai", places.name)
}

func TestRestaurantService_Search_Validation(t *testing.T) {
	service := NewRestaurantService(memory.NewRestaurantStore(), &mockPlaceSearch{})

	_, err := service.Search(context.Background(), "Springfield", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Search(context.Background(), "", "Thai")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRestaurantService_Search_NoProvider(t *testing.T) {
	service := NewRestaurantService(memory.NewRestaurantStore(), nil)

	_, err := service.Search(context.Background(), "Springfield", "Thai")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestRestaurantService_Search_ProviderError(t *testing.T) {
	service := NewRestaurantService(nil, &mockPlaceSearch{err: domain.ErrNetwork})

	_, err := service.Search(context.Background(), "Springfield", "Thai")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestRestaurantService_Register(t *testing.T) {
	store := memory.NewRestaurantStore()
	service := NewRestaurantService(store, nil)
	ctx := context.Background()
	candidate := domain.PlaceCandidate{Name: "Thai Palace", Place: domain.PlaceData{PlaceID: "p1"}}

	first, err := service.Register(ctx, testCred, candidate)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := service.Register(ctx, testCred, candidate)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	candidate.RestaurantID = first.ID
	resolved, err := service.Register(ctx, domain.Credential{}, candidate)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resolved.ID)
}

func TestRestaurantService_Register_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cred      domain.Credential
		candidate domain.PlaceCandidate
		want      error
	}{
		{"no name", testCred, domain.PlaceCandidate{Place: domain.PlaceData{PlaceID: "p1"}}, domain.ErrValidation},
		{"no place id", testCred, domain.PlaceCandidate{Name: "X"}, domain.ErrValidation},
		{
			"no credential",
			domain.Credential{},
			domain.PlaceCandidate{Name: "X", Place: domain.PlaceData{PlaceID: "p1"}},
			domain.ErrNotAuthorized,
		},
		{"stale id", testCred, domain.PlaceCandidate{RestaurantID: "gone"}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewRestaurantService(memory.NewRestaurantStore(), nil)
			_, err := service.Register(context.Background(), tt.cred, tt.candidate)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRestaurantService_Get(t *testing.T) {
	service := NewRestaurantService(memory.NewRestaurantStore(), nil)

	_, err := service.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewRestaurantService(nil, nil).Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
