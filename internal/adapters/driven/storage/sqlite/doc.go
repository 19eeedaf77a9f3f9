// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It backs the "local" backend mode and implements several store interfaces
// through a single database connection:
//
//   - RestaurantStore and PlaceSearch: Restaurants keyed on place ID
//   - DishStore: Dishes, unique per restaurant and normalised name
//   - ReviewStore: Append-only reviews
//   - ImageStore: Image bytes stored as blobs
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.dishsafe/data/dishsafe.db
//
// # Thread Safety
//
// All operations are thread-safe. Dish creation relies on the unique
// (restaurant_id, name_key) index so concurrent inserts converge on one row.
package sqlite
