package domain

import "time"

// Review is a diner's account of a dish. Reviews are append-only.
type Review struct {
	// ID is the backing store identifier.
	ID string

	// UserID identifies the author when the backend records it.
	UserID string

	// DishID references the reviewed Dish.
	DishID string

	// RestaurantID must equal the referenced Dish's RestaurantID.
	RestaurantID string

	// Allergies are allergy tags the reviewer declared.
	Allergies []string

	// Restrictions are restriction tags the reviewer declared.
	Restrictions []string

	// Comment is the free-text review.
	Comment string

	// CreatedAt is when the review was recorded.
	CreatedAt time.Time
}

// Tags returns the tags declared on the review, allergies first.
func (r *Review) Tags() []string {
	return MergeTags(r.Allergies, r.Restrictions)
}

// ReviewDraft carries the fields needed to record a Review.
type ReviewDraft struct {
	DishID       string
	RestaurantID string
	Allergies    []string
	Restrictions []string
	Comment      string
}

// AnnotatedReview is a Review with the dietary tags its comment indicates are safe.
// SafeCategories is computed at read time and never persisted.
type AnnotatedReview struct {
	Review
	SafeCategories []string
}

// ReviewSubmission is the user input to the review submission workflow.
type ReviewSubmission struct {
	// Restaurant is the selected search candidate; it must already be resolved.
	Restaurant *PlaceCandidate `validate:"required"`

	// DishName is the free-form dish name.
	DishName string `validate:"required,notblank,max=200"`

	// Image holds the raw image bytes, nil when no image was attached.
	Image []byte `validate:"omitempty,max=10485760"`

	// Restrictions is the comma-separated list of restriction tags.
	Restrictions string

	// Comment is the review text.
	Comment string `validate:"required,notblank"`
}
