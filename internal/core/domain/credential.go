package domain

import "time"

// Credential is the caller identity attached to write calls.
// It is sourced by the caller and passed explicitly; the core never stores it.
type Credential struct {
	// Token is the bearer token sent to the backend.
	Token string

	// Subject identifies the user the token was issued to, if known.
	Subject string

	// ExpiresAt is the token expiry, zero when unknown.
	ExpiresAt time.Time
}

// IsZero reports whether no token is present.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// IsExpired reports whether the credential has a known expiry before now.
func (c Credential) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
