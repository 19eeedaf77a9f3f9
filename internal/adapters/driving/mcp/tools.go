package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
)

// SearchRestaurantsInput is the input schema for the search_restaurants tool.
type SearchRestaurantsInput struct {
	Town string `json:"town" jsonschema:"the town or city to search in"`
	Name string `json:"name" jsonschema:"the restaurant name to look for"`
}

// SearchRestaurantsOutput is the output schema for the search_restaurants tool.
type SearchRestaurantsOutput struct {
	Results []PlaceOutput `json:"results"`
	Count   int           `json:"count"`
}

// PlaceOutput represents a single restaurant candidate.
type PlaceOutput struct {
	RestaurantID string   `json:"restaurant_id,omitempty"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	PriceLevel   string   `json:"price_level,omitempty"`
}

// DishSafetyInput is the input schema for the dish_safety tool.
type DishSafetyInput struct {
	DishID  string `json:"dish_id" jsonschema:"the dish identifier"`
	SafeFor string `json:"safe_for,omitempty" jsonschema:"only return reviews whose comment marks this tag as safe"`
}

// DishSafetyOutput is the output schema for the dish_safety tool.
type DishSafetyOutput struct {
	DishID          string         `json:"dish_id"`
	Name            string         `json:"name"`
	RestaurantID    string         `json:"restaurant_id"`
	AllergyTags     []string       `json:"allergy_tags"`
	RestrictionTags []string       `json:"restriction_tags"`
	Reviews         []ReviewOutput `json:"reviews"`
	Count           int            `json:"count"`
}

// ReviewOutput represents a single annotated review.
type ReviewOutput struct {
	ReviewID       string   `json:"review_id"`
	Comment        string   `json:"comment"`
	Tags           []string `json:"tags"`
	SafeCategories []string `json:"safe_categories"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	if s.ports.Restaurants != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_restaurants",
			Description: "Find restaurants by name in a town",
		}, s.handleSearchRestaurants)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dish_safety",
		Description: "List a dish's reviews with the dietary tags each comment indicates are safe",
	}, s.handleDishSafety)
}

// handleSearchRestaurants handles the search_restaurants tool invocation.
func (s *Server) handleSearchRestaurants(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchRestaurantsInput,
) (*mcp.CallToolResult, SearchRestaurantsOutput, error) {
	if s.ports.Restaurants == nil {
		return nil, SearchRestaurantsOutput{}, errors.New("restaurant search is not available")
	}

	candidates, err := s.ports.Restaurants.Search(ctx, input.Town, input.Name)
	if err != nil {
		return nil, SearchRestaurantsOutput{}, errors.New(domain.UserMessage(err))
	}

	output := SearchRestaurantsOutput{
		Results: make([]PlaceOutput, len(candidates)),
		Count:   len(candidates),
	}
	for i, c := range candidates {
		output.Results[i] = PlaceOutput{
			RestaurantID: c.RestaurantID,
			Name:         c.Name,
			Address:      c.Place.Address,
			Phone:        c.Place.Phone,
			Rating:       c.Place.Rating,
			PriceLevel:   c.Place.PriceLevel,
		}
	}

	return nil, output, nil
}

// handleDishSafety handles the dish_safety tool invocation.
func (s *Server) handleDishSafety(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DishSafetyInput,
) (*mcp.CallToolResult, DishSafetyOutput, error) {
	dishID := strings.TrimSpace(input.DishID)
	if dishID == "" {
		return nil, DishSafetyOutput{}, errors.New("dish_id is required")
	}

	view, err := s.ports.Safety.DishReviews(ctx, dishID)
	if err != nil {
		return nil, DishSafetyOutput{}, errors.New(domain.UserMessage(err))
	}

	return nil, dishOutput(view, input.SafeFor), nil
}

// dishOutput converts a dish view, keeping only reviews that mark safeFor
// as safe when it is set.
func dishOutput(view *driving.DishView, safeFor string) DishSafetyOutput {
	output := DishSafetyOutput{
		DishID:          view.Dish.ID,
		Name:            view.Dish.Name,
		RestaurantID:    view.Dish.RestaurantID,
		AllergyTags:     orEmpty(view.Dish.AllergyTags),
		RestrictionTags: orEmpty(view.Dish.RestrictionTags),
		Reviews:         []ReviewOutput{},
	}

	safeFor = strings.TrimSpace(safeFor)
	for i := range view.Reviews {
		r := &view.Reviews[i]
		if safeFor != "" && !containsFold(r.SafeCategories, safeFor) {
			continue
		}
		out := ReviewOutput{
			ReviewID:       r.ID,
			Comment:        r.Comment,
			Tags:           orEmpty(r.Tags()),
			SafeCategories: orEmpty(r.SafeCategories),
		}
		if !r.CreatedAt.IsZero() {
			out.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		output.Reviews = append(output.Reviews, out)
	}
	output.Count = len(output.Reviews)
	return output
}

// containsFold reports whether tags holds tag, ignoring case.
func containsFold(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func orEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
