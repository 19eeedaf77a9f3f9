package mcp

import (
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Safety loads dishes with annotated reviews.
	Safety driving.SafetyAnnotator

	// Restaurants searches and reads restaurants. Optional.
	Restaurants driving.RestaurantCatalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Safety == nil {
		return ErrMissingSafetyService
	}
	return nil
}
