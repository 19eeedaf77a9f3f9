// Package domain defines the core business entities for Dishsafe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Restaurant: A place reviews are written against, with its menu
//   - Dish: A menu item with its known allergy and restriction tags
//   - Review: A diner's comment about a dish, append-only
//   - AnnotatedReview: A Review plus the safe categories derived at read time
//   - Credential: The caller identity attached to write calls
//   - Registration, Login: Account input exchanged for a Credential
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
