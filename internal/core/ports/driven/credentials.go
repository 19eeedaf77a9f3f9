package driven

import "github.com/custodia-labs/dishsafe/internal/core/domain"

// CredentialInspector decodes a bearer token into a Credential.
type CredentialInspector interface {
	// Inspect returns the credential for token.
	// Returns domain.ErrNotAuthorized if the token is malformed or expired.
	Inspect(token string) (domain.Credential, error)
}
