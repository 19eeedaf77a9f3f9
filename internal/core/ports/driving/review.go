package driving

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// ReviewSubmitter records reviews, resolving the restaurant and dish first.
type ReviewSubmitter interface {
	// Submit validates the submission, resolves the restaurant, finds or
	// creates the dish (uploading its image if needed) and records the review.
	// It returns the new review ID. Failures are *domain.StepError values.
	Submit(ctx context.Context, cred domain.Credential, sub domain.ReviewSubmission) (*SubmissionResult, error)
}

// SubmissionResult describes the entities a successful submission touched.
type SubmissionResult struct {
	ReviewID     string `json:"review_id"`
	DishID       string `json:"dish_id"`
	RestaurantID string `json:"restaurant_id"`

	// DishCreated is true when this submission created the dish.
	DishCreated bool `json:"dish_created"`

	// ImageURL is the uploaded image URL, empty when none was uploaded.
	ImageURL string `json:"image_url,omitempty"`
}

// SafetyAnnotator attaches safe dietary categories to a dish's reviews.
type SafetyAnnotator interface {
	// Annotate classifies every review against tags concurrently.
	// The result has one entry per review in input order; a failed
	// classification yields an empty SafeCategories for that review only.
	Annotate(ctx context.Context, tags []string, reviews []domain.Review) []domain.AnnotatedReview

	// DishReviews loads a dish and its reviews and annotates them.
	// It fails only if the dish or its review list cannot be fetched.
	DishReviews(ctx context.Context, dishID string) (*DishView, error)
}

// DishView is a dish with its annotated reviews.
type DishView struct {
	Dish    domain.Dish
	Reviews []domain.AnnotatedReview
}
