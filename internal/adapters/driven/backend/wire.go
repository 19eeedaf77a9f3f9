package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// Wire formats use the backend's snake_case field names. Place data keeps
// the Google Places field names the backend passes through.

type placeData struct {
	PlaceID    string   `json:"place_id"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel string   `json:"priceLevel,omitempty"`
	Address    string   `json:"address,omitempty"`
	Phone      string   `json:"nationalPhoneNumber,omitempty"`
}

func (p placeData) toDomain() domain.PlaceData {
	return domain.PlaceData{
		PlaceID:    p.PlaceID,
		Address:    p.Address,
		Phone:      p.Phone,
		Rating:     p.Rating,
		PriceLevel: p.PriceLevel,
	}
}

func fromPlaceData(p domain.PlaceData) placeData {
	return placeData{
		PlaceID:    p.PlaceID,
		Rating:     p.Rating,
		PriceLevel: p.PriceLevel,
		Address:    p.Address,
		Phone:      p.Phone,
	}
}

type menuItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type restaurantJSON struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	GoogleData placeData  `json:"google_data"`
	Menu       []menuItem `json:"menu"`
	CreatedAt  wireTime   `json:"created_at"`
}

func (r restaurantJSON) toDomain() *domain.Restaurant {
	menu := make([]domain.DishRef, 0, len(r.Menu))
	for _, item := range r.Menu {
		menu = append(menu, domain.DishRef{ID: item.ID, Name: item.Name})
	}
	out := &domain.Restaurant{
		ID:    r.ID,
		Name:  r.Name,
		Place: r.GoogleData.toDomain(),
		Menu:  menu,
	}
	out.CreatedAt = r.CreatedAt.Time
	return out
}

// placeJSON is a place search result in Google Places format. RestaurantID
// is set by the backend when the place is already registered.
type placeJSON struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress    string   `json:"formattedAddress"`
	NationalPhoneNumber string   `json:"nationalPhoneNumber"`
	PriceLevel          string   `json:"priceLevel"`
	Rating              *float64 `json:"rating"`
	RestaurantID        string   `json:"restaurant_id"`
}

func (p placeJSON) toDomain() domain.PlaceCandidate {
	return domain.PlaceCandidate{
		RestaurantID: p.RestaurantID,
		Name:         p.DisplayName.Text,
		Place: domain.PlaceData{
			PlaceID:    p.ID,
			Address:    p.FormattedAddress,
			Phone:      p.NationalPhoneNumber,
			Rating:     p.Rating,
			PriceLevel: p.PriceLevel,
		},
	}
}

type dishJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ImageURL     string   `json:"image_url"`
	RestaurantID string   `json:"restaurant_id"`
	Allergies    []string `json:"allergies"`
	Restrictions []string `json:"restrictions"`
	CreatedAt    wireTime `json:"created_at"`
	UpdatedAt    wireTime `json:"updated_at"`
}

func (d dishJSON) toDomain() *domain.Dish {
	out := &domain.Dish{
		ID:              d.ID,
		Name:            d.Name,
		ImageURL:        d.ImageURL,
		RestaurantID:    d.RestaurantID,
		AllergyTags:     nonNil(d.Allergies),
		RestrictionTags: nonNil(d.Restrictions),
	}
	out.CreatedAt = d.CreatedAt.Time
	out.UpdatedAt = d.UpdatedAt.Time
	return out
}

type reviewJSON struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	DishID       string   `json:"dish_id"`
	RestaurantID string   `json:"restaurant_id"`
	Allergies    []string `json:"allergies"`
	Restrictions []string `json:"restrictions"`
	Comment      string   `json:"comment"`
	CreatedAt    wireTime `json:"created_at"`
}

func (r reviewJSON) toDomain() domain.Review {
	out := domain.Review{
		ID:           r.ID,
		UserID:       r.UserID,
		DishID:       r.DishID,
		RestaurantID: r.RestaurantID,
		Allergies:    nonNil(r.Allergies),
		Restrictions: nonNil(r.Restrictions),
		Comment:      r.Comment,
	}
	out.CreatedAt = r.CreatedAt.Time
	return out
}

// wireTime accepts RFC 3339 timestamps and the zone-less ISO 8601 form
// the backend emits, which is UTC.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == nil || *raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", *raw)
}

// createdJSON is the backend's acknowledgement of a write.
type createdJSON struct {
	ID      string `json:"id"`
	Created *bool  `json:"created,omitempty"`
	Message string `json:"message,omitempty"`
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
