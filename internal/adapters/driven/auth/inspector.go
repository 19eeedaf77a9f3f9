// Package auth decodes bearer tokens into caller credentials.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// Ensure JWTInspector implements the interface.
var _ driven.CredentialInspector = (*JWTInspector)(nil)

// JWTInspector reads the subject and expiry of a JWT bearer token.
//
// The signature is not verified: the backend owns the signing key and checks
// it on every write. Inspection only lets the client fail fast on tokens that
// are malformed or already expired.
type JWTInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTInspector creates an inspector that checks expiry against now.
// A nil now uses time.Now.
func NewJWTInspector(now func() time.Time) *JWTInspector {
	if now == nil {
		now = time.Now
	}
	return &JWTInspector{
		parser: jwt.NewParser(),
		now:    now,
	}
}

// Inspect decodes token into a credential.
// Returns domain.ErrNotAuthorized if the token is empty, malformed or expired.
func (i *JWTInspector) Inspect(token string) (domain.Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Credential{}, fmt.Errorf("%w: no token", domain.ErrNotAuthorized)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := i.parser.ParseUnverified(token, &claims); err != nil {
		return domain.Credential{}, mapJWTError(err)
	}

	cred := domain.Credential{
		Token:   token,
		Subject: claims.Subject,
	}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	if cred.IsExpired(i.now()) {
		return cred, fmt.Errorf("%w: token expired at %s", domain.ErrNotAuthorized, cred.ExpiresAt.Format(time.RFC3339))
	}
	return cred, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: malformed token: %w", domain.ErrNotAuthorized, err)
	default:
		return fmt.Errorf("%w: unreadable token: %w", domain.ErrNotAuthorized, err)
	}
}
