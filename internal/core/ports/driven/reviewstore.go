package driven

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// ReviewStore provides append-only review persistence.
type ReviewStore interface {
	// Create records a new review and returns its ID.
	// Identical drafts produce distinct reviews.
	Create(ctx context.Context, cred domain.Credential, draft domain.ReviewDraft) (string, error)

	// ListByDish returns the reviews for a dish, oldest first.
	ListByDish(ctx context.Context, dishID string) ([]domain.Review, error)
}
