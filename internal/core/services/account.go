package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService signs users up, logs them in and keeps the issued token
// in the auth.token setting. The token is only read back by the CLI when it
// builds a credential; the core still receives credentials explicitly.
type AccountService struct {
	gateway   driven.AccountGateway
	settings  *SettingsService
	inspector driven.CredentialInspector
	timeout   time.Duration
}

// NewAccountService creates a new account service.
// gateway may be nil when no backend is configured; SignUp and Login then fail.
func NewAccountService(gateway driven.AccountGateway, settings *SettingsService) *AccountService {
	return &AccountService{
		gateway:  gateway,
		settings: settings,
		timeout:  domain.DefaultBackendTimeout,
	}
}

// SetCredentialInspector sets the inspector used to read token expiry.
func (s *AccountService) SetCredentialInspector(inspector driven.CredentialInspector) {
	s.inspector = inspector
}

// SetTimeout sets the deadline for each backend call.
func (s *AccountService) SetTimeout(d time.Duration) {
	s.timeout = d
}

// SignUp creates an account on the backend.
func (s *AccountService) SignUp(ctx context.Context, reg domain.Registration) error {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if err := validateInput(reg, "registration"); err != nil {
		return err
	}
	if s.gateway == nil {
		return fmt.Errorf("%w: accounts require the remote backend", domain.ErrNotImplemented)
	}

	ctx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	if err := s.gateway.SignUp(ctx, reg); err != nil {
		return fmt.Errorf("sign up: %w", classifyCallErr(err))
	}
	logger.Info("Account created for %s", reg.Email)
	return nil
}

// Login exchanges credentials for a token and stores it.
func (s *AccountService) Login(ctx context.Context, login domain.Login) (domain.Credential, error) {
	login.Email = strings.TrimSpace(login.Email)
	if err := validateInput(login, "login"); err != nil {
		return domain.Credential{}, err
	}
	if s.gateway == nil {
		return domain.Credential{}, fmt.Errorf("%w: accounts require the remote backend", domain.ErrNotImplemented)
	}

	ctx, cancel := callContext(ctx, s.timeout)
	defer cancel()

	token, err := s.gateway.Login(ctx, login)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("log in: %w", classifyCallErr(err))
	}

	cred := domain.Credential{Token: token}
	if s.inspector != nil {
		cred, err = s.inspector.Inspect(token)
		if err != nil {
			return domain.Credential{}, fmt.Errorf("log in: issued token rejected: %w", err)
		}
	}

	if err := s.settings.Set(KeyAuthToken, token); err != nil {
		return domain.Credential{}, err
	}
	logger.Info("Logged in as %s", login.Email)
	return cred, nil
}

// Logout removes the stored token.
func (s *AccountService) Logout() error {
	return s.settings.Unset(KeyAuthToken)
}

// Status returns the effective credential. An expired token is returned
// together with a domain.ErrNotAuthorized error.
func (s *AccountService) Status() (domain.Credential, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return domain.Credential{}, err
	}

	token := strings.TrimSpace(settings.Auth.Token)
	if token == "" || s.inspector == nil {
		return domain.Credential{Token: token}, nil
	}
	return s.inspector.Inspect(token)
}
