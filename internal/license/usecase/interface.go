// Package usecase defines the interfaces and implementations for the licensing
// use cases. Use cases orchestrate repositories and the token authority to
// implement the activation, verification and revocation protocol.
package usecase

import (
	"context"

	"github.com/google/uuid"

	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// LicenseRepository defines the interface for License persistence operations.
type LicenseRepository interface {
	Create(ctx context.Context, license *licenseDomain.License) error
	GetByKey(ctx context.Context, key string) (*licenseDomain.License, error)
	Update(ctx context.Context, license *licenseDomain.License) error
	List(ctx context.Context) ([]*licenseDomain.License, error)
}

// ActivationRepository defines the interface for Activation persistence operations.
type ActivationRepository interface {
	Upsert(ctx context.Context, activation *licenseDomain.Activation) error
	ListByLicense(ctx context.Context, licenseID uuid.UUID) ([]*licenseDomain.Activation, error)
	List(ctx context.Context) ([]*licenseDomain.Activation, error)
	DeleteByToken(ctx context.Context, token string) error
	ExistsByToken(ctx context.Context, token string) (bool, error)
}

// RevokedTokenRepository defines the interface for the revocation denylist.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// LicenseUseCase defines the licensing protocol business logic.
type LicenseUseCase interface {
	// Activate binds a device fingerprint to a license and returns a fresh
	// signed token. Unknown keys carrying the self-service prefix create
	// their license on first activation.
	Activate(ctx context.Context, input *licenseDomain.ActivateInput) (*licenseDomain.ActivateOutput, error)

	// Verify checks a token against the denylist first, then its signature
	// and claims. Invalid tokens produce ok=false with a message, never an
	// error; errors are reserved for store failures.
	Verify(ctx context.Context, token string) (*licenseDomain.VerifyResult, error)

	// Deactivate frees the device slot held by the token and appends it to
	// the denylist. Unknown tokens succeed; deactivation is idempotent.
	Deactivate(ctx context.Context, token string) error

	// RevokeToken is the operator-side takedown: denylist the token and
	// remove any activation that carries it.
	RevokeToken(ctx context.Context, token string) error

	// RemoveActivation frees the device slot without revoking the token.
	RemoveActivation(ctx context.Context, token string) error

	CreateLicense(ctx context.Context, input *licenseDomain.CreateLicenseInput) (*licenseDomain.License, error)

	// SetLicenseActive enables or disables a license by key.
	SetLicenseActive(ctx context.Context, key string, active bool) (*licenseDomain.License, error)

	ListLicenses(ctx context.Context) ([]*licenseDomain.License, error)
	ListActivations(ctx context.Context) ([]*licenseDomain.Activation, error)

	// Stats returns dashboard totals.
	Stats(ctx context.Context) (*licenseDomain.Stats, error)
}
