package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

var _ driven.AccountGateway = (*AccountStore)(nil)

// AccountStore implements driven.AccountGateway against /sign_up and /login.
type AccountStore struct {
	client *Client
}

// SignUp creates an account. The backend answers 400 for a taken email.
func (s *AccountStore) SignUp(ctx context.Context, reg domain.Registration) error {
	payload := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Name:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
	}

	req, err := jsonRequest(http.MethodPost, "/sign_up", nil, payload)
	if err != nil {
		return err
	}
	return s.client.do(ctx, req, nil)
}

// Login exchanges an email and password for a bearer token.
// The response follows the OAuth2 token shape: access_token and token_type.
func (s *AccountStore) Login(ctx context.Context, login domain.Login) (string, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Email:    login.Email,
		Password: login.Password,
	}

	req, err := jsonRequest(http.MethodPost, "/login", nil, payload)
	if err != nil {
		return "", err
	}

	var tok oauth2.Token
	if err := s.client.do(ctx, req, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: POST /login returned no access_token", domain.ErrNotAuthorized)
	}
	if tok.TokenType != "" && !strings.EqualFold(tok.TokenType, "bearer") {
		return "", fmt.Errorf("%w: unsupported token type %q", domain.ErrNotAuthorized, tok.TokenType)
	}
	return tok.AccessToken, nil
}
