package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// ReviewRecorder performs the terminal review write.
// It does not deduplicate: identical calls create distinct reviews.
type ReviewRecorder struct {
	reviews driven.ReviewStore
	timeout time.Duration
}

// NewReviewRecorder creates a new review recorder.
func NewReviewRecorder(reviews driven.ReviewStore) *ReviewRecorder {
	return &ReviewRecorder{
		reviews: reviews,
		timeout: domain.DefaultBackendTimeout,
	}
}

// SetTimeout sets the deadline for each create call.
func (r *ReviewRecorder) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Record creates the review and returns its ID.
func (r *ReviewRecorder) Record(ctx context.Context, cred domain.Credential, draft domain.ReviewDraft) (string, error) {
	if r.reviews == nil {
		return "", domain.ErrNotImplemented
	}
	switch {
	case draft.DishID == "":
		return "", domain.NewValidationError("dish", "must be resolved before recording a review")
	case draft.RestaurantID == "":
		return "", domain.NewValidationError("restaurant", "must be resolved before recording a review")
	case draft.Comment == "":
		return "", domain.NewValidationError("comment", "must not be empty")
	}

	callCtx, cancel := callContext(ctx, r.timeout)
	defer cancel()

	id, err := r.reviews.Create(callCtx, cred, draft)
	if err != nil {
		return "", fmt.Errorf("create review: %w", classifyCallErr(err))
	}

	logger.Debug("Recorded review %s for dish %s", id, draft.DishID)
	return id, nil
}
