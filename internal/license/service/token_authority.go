package service

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/farmapp/licensing/internal/errors"
	"github.com/farmapp/licensing/internal/license/domain"
)

// licenseClaims is the JWT encoding of domain.TokenClaims.
type licenseClaims struct {
	HWID     string `json:"hwid"`
	Customer string `json:"customer"`
	Plan     string `json:"plan"`
	jwt.RegisteredClaims
}

// tokenAuthority implements TokenAuthority with ES256 (ECDSA P-256) signing.
// Keys are held at service level so use cases stay crypto-library agnostic.
type tokenAuthority struct {
	privateKey *ecdsa.PrivateKey
	publicKey  *ecdsa.PublicKey
	issuer     string
	audience   string
	validity   time.Duration
	now        func() time.Time
}

// NewTokenAuthority creates a TokenAuthority that signs with privateKey and
// verifies with publicKey. privateKey may be nil for a verify-only authority.
func NewTokenAuthority(
	privateKey *ecdsa.PrivateKey,
	publicKey *ecdsa.PublicKey,
	issuer string,
	audience string,
	validity time.Duration,
) (TokenAuthority, error) {
	if publicKey == nil {
		return nil, apperrors.New("token authority requires a public key")
	}
	if issuer == "" || audience == "" {
		return nil, apperrors.New("token authority requires issuer and audience")
	}
	if validity <= 0 {
		return nil, apperrors.New("token validity must be positive")
	}

	return &tokenAuthority{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		validity:   validity,
		now:        time.Now,
	}, nil
}

// Issue signs a new ES256 token with iss, aud, iat, nbf, exp and the bound
// device fingerprint. ECDSA signatures are randomized, so re-issuing for the
// same input always yields a distinct token value; the previous token for the
// pair is not revoked by issuance alone.
func (t *tokenAuthority) Issue(input IssueTokenInput) (string, error) {
	if t.privateKey == nil {
		return "", apperrors.New("token authority is verify-only: no private key loaded")
	}

	now := t.now().UTC()
	claims := licenseClaims{
		HWID:     input.HWID,
		Customer: input.Customer,
		Plan:     input.Plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(t.privateKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign license token")
	}
	return signed, nil
}

// Verify checks the signature against the public key along with issuer,
// audience, not-before and expiry.
func (t *tokenAuthority) Verify(tokenString string) (*domain.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&licenseClaims{},
		func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodES256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return t.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "token verification failed")
	}

	claims, ok := parsed.Claims.(*licenseClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.New("invalid token claims")
	}

	return claims.toDomain(), nil
}

// toDomain maps the JWT claim set to the protocol-level claim set.
func (c *licenseClaims) toDomain() *domain.TokenClaims {
	out := &domain.TokenClaims{
		Issuer:   c.Issuer,
		HWID:     c.HWID,
		Customer: c.Customer,
		Plan:     c.Plan,
	}
	if len(c.Audience) > 0 {
		out.Audience = c.Audience[0]
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.NotBefore != nil {
		out.NotBefore = c.NotBefore.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
