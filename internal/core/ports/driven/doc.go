// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RestaurantStore: Restaurant lookup and registration
//   - DishStore: Dish lookup and atomic get-or-create
//   - ReviewStore: Append-only review persistence
//   - ImageStore: Durable storage for uploaded dish images
//   - SafetyClassifier: Judges which dietary tags a review comment supports as safe
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PlaceSearch: External place-provider search. Without it, restaurants can
//     only be opened by identifier.
//   - CredentialInspector: Decodes bearer tokens so expired credentials fail
//     before any network call. Without it, tokens are passed through opaque.
//   - AccountGateway: Account sign-up and login. Without it (local mode),
//     account commands report that the remote backend is required.
//   - PromptStore: User-editable classifier prompts. Without it, the built-in
//     prompts are used.
//   - SettingsOverlay: Environment overrides applied over the config file.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
