// Package google searches for restaurants with the Google Places API (New).
package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	places "google.golang.org/api/places/v1"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// Ensure Search implements the interface.
var _ driven.PlaceSearch = (*Search)(nil)

// searchFields is the response field mask. Places API (New) rejects text
// searches without one.
var searchFields = []string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.nationalPhoneNumber",
	"places.priceLevel",
	"places.rating",
}

// Config holds Places API settings.
type Config struct {
	// APIKey is the Google Maps Platform key. Required.
	APIKey string

	// Endpoint overrides the API base URL, e.g. for tests.
	Endpoint string

	// HTTPClient replaces the default transport when set.
	HTTPClient *http.Client
}

// Search implements driven.PlaceSearch with places:searchText.
type Search struct {
	svc    *places.Service
	apiKey string
}

// NewSearch creates a Places API search adapter.
func NewSearch(ctx context.Context, cfg Config) (*Search, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: places API key is required", domain.ErrValidation)
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	svc, err := places.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}
	return &Search{svc: svc, apiKey: cfg.APIKey}, nil
}

// SearchPlaces runs a "<name> in <town>" text search restricted to
// restaurants. Results are never marked as registered; registration is
// keyed on the place ID, so registering a known place returns it.
func (s *Search) SearchPlaces(ctx context.Context, town, name string) ([]domain.PlaceCandidate, error) {
	call := s.svc.Places.SearchText(&places.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:    name + " in " + town,
		IncludedType: "restaurant",
		PageSize:     domain.MaxPlaceResults,
	})
	call.Header().Set("X-Goog-Api-Key", s.apiKey)
	call.Header().Set("X-Goog-FieldMask", strings.Join(searchFields, ","))

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	candidates := make([]domain.PlaceCandidate, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p == nil || p.Id == "" {
			continue
		}
		candidates = append(candidates, toCandidate(p))
		if len(candidates) == domain.MaxPlaceResults {
			break
		}
	}
	return candidates, nil
}

func toCandidate(p *places.GoogleMapsPlacesV1Place) domain.PlaceCandidate {
	var name string
	if p.DisplayName != nil {
		name = p.DisplayName.Text
	}
	var rating *float64
	if p.Rating > 0 {
		r := p.Rating
		rating = &r
	}
	return domain.PlaceCandidate{
		Name: name,
		Place: domain.PlaceData{
			PlaceID:    p.Id,
			Address:    p.FormattedAddress,
			Phone:      p.NationalPhoneNumber,
			Rating:     rating,
			PriceLevel: p.PriceLevel,
		},
	}
}

// wrapError maps Places API failures onto domain error kinds.
func wrapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		var kind error
		switch {
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			kind = domain.ErrNotAuthorized
		case gerr.Code == http.StatusBadRequest:
			kind = domain.ErrValidation
		case gerr.Code == http.StatusGatewayTimeout:
			kind = domain.ErrTimeout
		default:
			kind = domain.ErrNetwork
		}
		if gerr.Message != "" {
			return fmt.Errorf("%w: places search returned %d: %s", kind, gerr.Code, gerr.Message)
		}
		return fmt.Errorf("%w: places search returned %d", kind, gerr.Code)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: places search: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: places search: %w", domain.ErrNetwork, err)
}
