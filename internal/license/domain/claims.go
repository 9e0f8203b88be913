package domain

import "time"

// TokenClaims is the claim set bound into every issued license token.
// The encoding (JWT) is a token-authority concern; the claim set itself
// is part of the protocol contract.
type TokenClaims struct {
	Issuer    string
	Audience  string
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	HWID      string
	Customer  string
	Plan      string
}

// VerifyResult is the outcome of a token verification.
type VerifyResult struct {
	OK      bool
	Message string
}
