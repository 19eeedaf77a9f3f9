package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Dishsafe resources.
	uriScheme = "dishsafe://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Restaurants != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "restaurants/{restaurantId}",
			Name:        "restaurant",
			Description: "A restaurant with its place details and menu",
			MIMEType:    "application/json",
		}, s.handleRestaurantResource)
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "dishes/{dishId}",
		Name:        "dish",
		Description: "A dish with its annotated reviews",
		MIMEType:    "application/json",
	}, s.handleDishResource)
}

// handleRestaurantResource returns a restaurant and its menu.
func (s *Server) handleRestaurantResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Restaurants == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract restaurantId from URI: dishsafe://restaurants/{restaurantId}
	id := extractID(req.Params.URI, "restaurants/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	restaurant, err := s.ports.Restaurants.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting restaurant: %w", err)
	}

	type menuItem struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URI  string `json:"uri"`
	}
	info := struct {
		ID      string     `json:"id"`
		Name    string     `json:"name"`
		PlaceID string     `json:"place_id,omitempty"`
		Address string     `json:"address,omitempty"`
		Phone   string     `json:"phone,omitempty"`
		Rating  *float64   `json:"rating,omitempty"`
		Menu    []menuItem `json:"menu"`
	}{
		ID:      restaurant.ID,
		Name:    restaurant.Name,
		PlaceID: restaurant.Place.PlaceID,
		Address: restaurant.Place.Address,
		Phone:   restaurant.Place.Phone,
		Rating:  restaurant.Place.Rating,
		Menu:    make([]menuItem, len(restaurant.Menu)),
	}
	for i, ref := range restaurant.Menu {
		info.Menu[i] = menuItem{ID: ref.ID, Name: ref.Name, URI: uriScheme + "dishes/" + ref.ID}
	}

	return jsonResult(req.Params.URI, info)
}

// handleDishResource returns a dish with its annotated reviews.
func (s *Server) handleDishResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract dishId from URI: dishsafe://dishes/{dishId}
	id := extractID(req.Params.URI, "dishes/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view, err := s.ports.Safety.DishReviews(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting dish: %w", err)
	}

	return jsonResult(req.Params.URI, dishOutput(view, ""))
}

// jsonResult wraps v as a single JSON resource content.
func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractID extracts the trailing identifier from a URI like dishsafe://<kind>{id}.
// Nested paths are rejected.
func extractID(uri, kind string) string {
	prefix := uriScheme + kind

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
