// Package service provides the token authority: issuance and cryptographic
// verification of signed license tokens.
package service

import (
	"github.com/farmapp/licensing/internal/license/domain"
)

// IssueTokenInput contains the claim values bound into a new token.
type IssueTokenInput struct {
	HWID     string
	Customer string
	Plan     string
}

// TokenAuthority issues and verifies signed license tokens. Verification
// needs only the public key, so it never touches the store; the denylist
// check stays a use-case concern.
type TokenAuthority interface {
	// Issue signs a new token bound to the given device fingerprint.
	// Each call produces a fresh token value, even for the same input.
	Issue(input IssueTokenInput) (string, error)

	// Verify checks the token signature, issuer, audience, not-before and
	// expiry. Returns the embedded claims on success.
	Verify(token string) (*domain.TokenClaims, error)
}
