package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty string", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single", "peanuts", []string{"peanuts"}},
		{"trims elements", "peanuts, shellfish", []string{"peanuts", "shellfish"}},
		{"drops empty elements", "peanuts,, ,shellfish,", []string{"peanuts", "shellfish"}},
		{"keeps case", " Gluten ,dairy", []string{"Gluten", "dairy"}},
		{"drops repeats", "vegan, halal ,, vegan", []string{"vegan", "halal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTags(tt.input))
		})
	}
}

func TestSelectTags(t *testing.T) {
	tests := []struct {
		name     string
		said     []string
		tags     []string
		expected []string
	}{
		{"nothing said", nil, []string{"vegan"}, []string{}},
		{"no tags", []string{"vegan"}, nil, []string{}},
		{"follows tag order", []string{"kosher", "vegan"}, []string{"vegan", "kosher"}, []string{"vegan", "kosher"}},
		{"ignores case and keeps tag spelling", []string{"gluten"}, []string{"Gluten"}, []string{"Gluten"}},
		{"drops unknown categories", []string{"dairy", " vegan "}, []string{"vegan"}, []string{"vegan"}},
		{"no duplicates", []string{"vegan", "VEGAN"}, []string{"Vegan", "vegan"}, []string{"Vegan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectTags(tt.said, tt.tags))
		})
	}
}

func TestMergeTags(t *testing.T) {
	assert.Equal(t, []string{}, MergeTags())
	assert.Equal(t,
		[]string{"peanuts", "dairy", "vegan"},
		MergeTags([]string{"peanuts", "dairy"}, []string{"dairy", "vegan"}),
	)
}

func TestDish_TagsAllergiesFirst(t *testing.T) {
	dish := Dish{
		AllergyTags:     []string{"nut allergy"},
		RestrictionTags: []string{"vegan", "halal"},
	}

	assert.Equal(t, []string{"nut allergy", "vegan", "halal"}, dish.Tags())
}

func TestReview_Tags(t *testing.T) {
	review := Review{Allergies: []string{"gluten"}, Restrictions: []string{"kosher"}}

	assert.Equal(t, []string{"gluten", "kosher"}, review.Tags())
}

func TestDishDraft_ToDish(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	draft := DishDraft{
		Name:            "Pad Thai",
		RestaurantID:    "r1",
		RestrictionTags: []string{"peanuts"},
	}

	dish := draft.ToDish("d1", now)

	assert.Equal(t, "d1", dish.ID)
	assert.Equal(t, "Pad Thai", dish.Name)
	assert.Equal(t, "r1", dish.RestaurantID)
	assert.Equal(t, []string{"peanuts"}, dish.RestrictionTags)
	assert.Equal(t, []string{}, dish.AllergyTags)
	assert.Equal(t, now, dish.CreatedAt)

	// The dish must not alias the draft's slices.
	draft.RestrictionTags[0] = "changed"
	assert.Equal(t, "peanuts", dish.RestrictionTags[0])
}

func TestPlaceCandidate_IsResolved(t *testing.T) {
	var nilCandidate *PlaceCandidate
	assert.False(t, nilCandidate.IsResolved())
	assert.False(t, (&PlaceCandidate{Name: "Cali Pizza"}).IsResolved())
	assert.True(t, (&PlaceCandidate{RestaurantID: "r1"}).IsResolved())
}

func TestRestaurant_HasDish(t *testing.T) {
	r := Restaurant{Menu: []DishRef{{ID: "d1", Name: "Pad Thai"}}}
	assert.True(t, r.HasDish("d1"))
	assert.False(t, r.HasDish("d2"))
}

func TestCredential(t *testing.T) {
	now := time.Now()
	assert.True(t, Credential{}.IsZero())
	assert.False(t, Credential{Token: "t"}.IsZero())
	assert.False(t, Credential{Token: "t"}.IsExpired(now))
	assert.True(t, Credential{Token: "t", ExpiresAt: now.Add(-time.Minute)}.IsExpired(now))
	assert.False(t, Credential{Token: "t", ExpiresAt: now.Add(time.Minute)}.IsExpired(now))
}
