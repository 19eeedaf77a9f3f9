package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		kind     string
		expected string
	}{
		{name: "dish URI", uri: "dishsafe://dishes/dish-1", kind: "dishes/", expected: "dish-1"},
		{name: "restaurant URI", uri: "dishsafe://restaurants/r-9", kind: "restaurants/", expected: "r-9"},
		{name: "wrong kind", uri: "dishsafe://dishes/dish-1", kind: "restaurants/", expected: ""},
		{name: "invalid scheme", uri: "file://dishes/dish-1", kind: "dishes/", expected: ""},
		{name: "nested path", uri: "dishsafe://dishes/dish-1/reviews", kind: "dishes/", expected: ""},
		{name: "empty URI", uri: "", kind: "dishes/", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractID(tt.uri, tt.kind))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleRestaurantResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns restaurant with menu links", func(t *testing.T) {
		catalog := &mockRestaurantCatalog{
			restaurant: &domain.Restaurant{
				ID:    "rest-1",
				Name:  "Thai Garden",
				Place: domain.PlaceData{PlaceID: "p-1", Address: "1 Main St"},
				Menu:  []domain.DishRef{{ID: "dish-1", Name: "Pad Thai"}},
			},
		}
		server, err := NewServer(&Ports{Safety: &mockSafetyService{}, Restaurants: catalog})
		require.NoError(t, err)

		result, err := server.handleRestaurantResource(ctx, makeReadResourceRequest("dishsafe://restaurants/rest-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var decoded struct {
			Name string `json:"name"`
			Menu []struct {
				ID  string `json:"id"`
				URI string `json:"uri"`
			} `json:"menu"`
		}
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
		assert.Equal(t, "Thai Garden", decoded.Name)
		require.Len(t, decoded.Menu, 1)
		assert.Equal(t, "dishsafe://dishes/dish-1", decoded.Menu[0].URI)
	})

	t.Run("missing restaurant is resource not found", func(t *testing.T) {
		catalog := &mockRestaurantCatalog{err: fmt.Errorf("%w: restaurant rest-9", domain.ErrNotFound)}
		server, err := NewServer(&Ports{Safety: &mockSafetyService{}, Restaurants: catalog})
		require.NoError(t, err)

		_, err = server.handleRestaurantResource(ctx, makeReadResourceRequest("dishsafe://restaurants/rest-9"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("other failures are wrapped", func(t *testing.T) {
		catalog := &mockRestaurantCatalog{err: errors.New("boom")}
		server, err := NewServer(&Ports{Safety: &mockSafetyService{}, Restaurants: catalog})
		require.NoError(t, err)

		_, err = server.handleRestaurantResource(ctx, makeReadResourceRequest("dishsafe://restaurants/rest-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting restaurant")
	})

	t.Run("nil catalog returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Safety: &mockSafetyService{}})
		require.NoError(t, err)

		_, err = server.handleRestaurantResource(ctx, makeReadResourceRequest("dishsafe://restaurants/rest-1"))
		assert.Error(t, err)
	})
}

func TestServer_handleDishResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns annotated dish", func(t *testing.T) {
		safety := &mockSafetyService{view: sampleDishView()}
		server, err := NewServer(&Ports{Safety: safety})
		require.NoError(t, err)

		result, err := server.handleDishResource(ctx, makeReadResourceRequest("dishsafe://dishes/dish-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)

		var decoded DishSafetyOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
		assert.Equal(t, "dish-1", decoded.DishID)
		assert.Equal(t, 2, decoded.Count)
		assert.Equal(t, 1, safety.calls)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		safety := &mockSafetyService{view: sampleDishView()}
		server, err := NewServer(&Ports{Safety: safety})
		require.NoError(t, err)

		_, err = server.handleDishResource(ctx, makeReadResourceRequest("dishsafe://dishes/"))

		require.Error(t, err)
		assert.Zero(t, safety.calls)
	})

	t.Run("other failures are wrapped", func(t *testing.T) {
		safety := &mockSafetyService{err: fmt.Errorf("%w: refused", domain.ErrNetwork)}
		server, err := NewServer(&Ports{Safety: safety})
		require.NoError(t, err)

		_, err = server.handleDishResource(ctx, makeReadResourceRequest("dishsafe://dishes/dish-1"))

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}
