package driving

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// AccountService manages the stored session used for write commands.
type AccountService interface {
	// SignUp creates an account on the backend.
	SignUp(ctx context.Context, reg domain.Registration) error

	// Login exchanges credentials for a token and stores it as auth.token.
	Login(ctx context.Context, login domain.Login) (domain.Credential, error)

	// Logout removes the stored token.
	Logout() error

	// Status returns the effective credential, inspected when possible.
	// A zero credential means no token is configured.
	Status() (domain.Credential, error)
}
