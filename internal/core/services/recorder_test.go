package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dishsafe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

func TestReviewRecorder_Record_NoDeduplication(t *testing.T) {
	store := memory.NewReviewStore(nil)
	recorder := NewReviewRecorder(store)
	draft := domain.ReviewDraft{DishID: "d1", RestaurantID: "r1", Comment: "Great"}

	id1, err := recorder.Record(context.Background(), testCred, draft)
	require.NoError(t, err)
	id2, err := recorder.Record(context.Background(), testCred, draft)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, store.Count())
}

func TestReviewRecorder_Record_Validation(t *testing.T) {
	recorder := NewReviewRecorder(memory.NewReviewStore(nil))

	tests := []struct {
		name  string
		draft domain.ReviewDraft
	}{
		{"no dish", domain.ReviewDraft{RestaurantID: "r1", Comment: "x"}},
		{"no restaurant", domain.ReviewDraft{DishID: "d1", Comment: "x"}},
		{"no comment", domain.ReviewDraft{DishID: "d1", RestaurantID: "r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := recorder.Record(context.Background(), testCred, tt.draft)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestReviewRecorder_Record_StoreError(t *testing.T) {
	recorder := NewReviewRecorder(&mockReviewStore{ReviewStore: memory.NewReviewStore(nil), createErr: domain.ErrNotAuthorized})

	_, err := recorder.Record(context.Background(), testCred, domain.ReviewDraft{DishID: "d1", RestaurantID: "r1", Comment: "x"})

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestReviewRecorder_Record_NoStore(t *testing.T) {
	_, err := NewReviewRecorder(nil).Record(context.Background(), testCred, domain.ReviewDraft{})

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
