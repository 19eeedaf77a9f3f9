package driven

import (
	"context"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// AccountGateway creates accounts and issues bearer tokens.
type AccountGateway interface {
	// SignUp creates an account.
	// Returns domain.ErrValidation if the email is already registered.
	SignUp(ctx context.Context, reg domain.Registration) error

	// Login returns a bearer token for the account.
	// Returns domain.ErrNotAuthorized if the email or password is wrong.
	Login(ctx context.Context, login domain.Login) (string, error)
}
