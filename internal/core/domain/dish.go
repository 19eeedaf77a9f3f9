package domain

import "time"

// Dish is a menu item at a restaurant.
// At most one Dish exists per (RestaurantID, normalised Name).
type Dish struct {
	// ID is the backing store identifier.
	ID string

	// Name is the dish name as first submitted.
	Name string

	// ImageURL is the uploaded image location, empty when none was supplied.
	ImageURL string

	// RestaurantID references the owning Restaurant.
	RestaurantID string

	// AllergyTags are allergens the dish is known to contain.
	AllergyTags []string

	// RestrictionTags are dietary restrictions the dish is known to violate.
	RestrictionTags []string

	// CreatedAt is when the dish was first recorded.
	CreatedAt time.Time

	// UpdatedAt is when the dish was last modified.
	UpdatedAt time.Time
}

// Tags returns the dish's combined tag list with allergy tags first.
// Duplicates are dropped, keeping the first occurrence.
func (d *Dish) Tags() []string {
	return MergeTags(d.AllergyTags, d.RestrictionTags)
}

// DishDraft carries the fields needed to create a Dish.
type DishDraft struct {
	Name            string
	ImageURL        string
	RestaurantID    string
	AllergyTags     []string
	RestrictionTags []string
}

// ToDish builds a Dish from the draft with the given identifier and timestamp.
func (d DishDraft) ToDish(id string, now time.Time) Dish {
	return Dish{
		ID:              id,
		Name:            d.Name,
		ImageURL:        d.ImageURL,
		RestaurantID:    d.RestaurantID,
		AllergyTags:     append([]string{}, d.AllergyTags...),
		RestrictionTags: append([]string{}, d.RestrictionTags...),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DishResolution is the outcome of a get-or-create dish call.
type DishResolution struct {
	// DishID is the identifier of the existing or newly created dish.
	DishID string

	// Created is true when this call inserted the dish.
	Created bool
}
