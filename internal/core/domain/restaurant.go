package domain

import "time"

// Restaurant is a place that dishes and reviews are recorded against.
// Restaurants are created lazily the first time a place is registered and
// are not updated afterwards.
type Restaurant struct {
	// ID is the backing store identifier.
	ID string

	// Name is the display name reported by the place provider.
	Name string

	// Place holds the provider data captured at registration time.
	Place PlaceData

	// Menu lists the dishes recorded for this restaurant, oldest first.
	Menu []DishRef

	// CreatedAt is when the restaurant was registered.
	CreatedAt time.Time
}

// PlaceData is the external place-provider snapshot for a restaurant.
// Every field is optional; upstream records are frequently incomplete.
type PlaceData struct {
	// PlaceID is the provider's identifier for the place.
	PlaceID string

	// Address is the formatted street address.
	Address string

	// Phone is the national phone number.
	Phone string

	// Rating is the provider rating, nil when the provider has none.
	Rating *float64

	// PriceLevel is the provider price level (e.g. "PRICE_LEVEL_MODERATE").
	PriceLevel string
}

// DishRef is a lightweight reference from a restaurant menu to a dish.
type DishRef struct {
	ID   string
	Name string
}

// PlaceCandidate is a restaurant search result.
// RestaurantID is empty until the place has been registered.
type PlaceCandidate struct {
	RestaurantID string
	Name         string
	Place        PlaceData
}

// IsResolved reports whether the candidate already maps to a Restaurant.
func (c *PlaceCandidate) IsResolved() bool {
	return c != nil && c.RestaurantID != ""
}

// HasDish reports whether the menu references the given dish ID.
func (r *Restaurant) HasDish(dishID string) bool {
	for _, ref := range r.Menu {
		if ref.ID == dishID {
			return true
		}
	}
	return false
}

// MaxPlaceResults caps the number of candidates a place search returns.
const MaxPlaceResults = 5
