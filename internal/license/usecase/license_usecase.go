package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	licenseService "github.com/farmapp/licensing/internal/license/service"
)

// Verification failure messages returned to clients. These are part of the
// wire contract; clients surface them verbatim.
const (
	messageRevoked      = "Revoked"
	messageInvalidToken = "Invalid token"
)

// licenseUseCase implements the LicenseUseCase interface.
type licenseUseCase struct {
	txManager         database.TxManager
	licenseRepo       LicenseRepository
	activationRepo    ActivationRepository
	revokedTokenRepo  RevokedTokenRepository
	tokenAuthority    licenseService.TokenAuthority
	selfServicePrefix string
}

// Activate executes the activation protocol inside a single transaction:
// resolve (or lazily create) the license, enforce the active flag and device
// limit, issue a fresh token and upsert the activation row.
//
// Admission of a new fingerprint relies on the read-then-write inside this
// transaction; the UNIQUE (license_id, hwid) constraint removes duplicate
// races, and a rare concurrent overrun of distinct fingerprints is accepted.
func (l *licenseUseCase) Activate(
	ctx context.Context,
	input *licenseDomain.ActivateInput,
) (*licenseDomain.ActivateOutput, error) {
	var output *licenseDomain.ActivateOutput

	err := l.txManager.WithTx(ctx, func(txCtx context.Context) error {
		license, err := l.resolveLicense(txCtx, input)
		if err != nil {
			return err
		}

		if !license.IsActive {
			return licenseDomain.ErrLicenseInactive
		}

		activations, err := l.activationRepo.ListByLicense(txCtx, license.ID)
		if err != nil {
			return err
		}

		// Re-activation of a known fingerprint is always allowed; only new
		// fingerprints consume a device slot.
		var existing *licenseDomain.Activation
		for _, activation := range activations {
			if activation.HWID == input.HWID {
				existing = activation
				break
			}
		}
		if existing == nil && len(activations) >= license.DeviceLimit {
			return licenseDomain.ErrDeviceLimitReached
		}

		token, err := l.tokenAuthority.Issue(licenseService.IssueTokenInput{
			HWID:     input.HWID,
			Customer: license.Customer,
			Plan:     license.Plan,
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		activation := &licenseDomain.Activation{
			ID:        uuid.Must(uuid.NewV7()),
			LicenseID: license.ID,
			HWID:      input.HWID,
			Token:     token,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if existing != nil {
			activation.ID = existing.ID
			activation.CreatedAt = existing.CreatedAt
		}

		if err := l.activationRepo.Upsert(txCtx, activation); err != nil {
			return err
		}

		output = &licenseDomain.ActivateOutput{Token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// resolveLicense loads the license by key, creating it on the fly for unknown
// keys that carry the self-service prefix.
func (l *licenseUseCase) resolveLicense(
	ctx context.Context,
	input *licenseDomain.ActivateInput,
) (*licenseDomain.License, error) {
	license, err := l.licenseRepo.GetByKey(ctx, input.LicenseKey)
	if err == nil {
		return license, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToUpper(input.LicenseKey), l.selfServicePrefix) {
		return nil, licenseDomain.ErrInvalidLicenseKey
	}

	deviceLimit := input.DeviceLimit
	if deviceLimit < 1 {
		deviceLimit = 1
	}

	license = &licenseDomain.License{
		ID:          uuid.Must(uuid.NewV7()),
		Key:         input.LicenseKey,
		Customer:    licenseDomain.DefaultCustomer,
		Plan:        licenseDomain.DefaultPlan,
		DeviceLimit: deviceLimit,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.licenseRepo.Create(ctx, license); err != nil {
		return nil, err
	}

	return license, nil
}

// Verify checks the denylist before the signature: a revoked token stays
// invalid no matter how cryptographically sound it is. Tokens that fail the
// signature or claims check are still accepted if the raw token value exists
// in the activation store.
func (l *licenseUseCase) Verify(ctx context.Context, token string) (*licenseDomain.VerifyResult, error) {
	revoked, err := l.revokedTokenRepo.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return &licenseDomain.VerifyResult{OK: false, Message: messageRevoked}, nil
	}

	if _, err := l.tokenAuthority.Verify(token); err == nil {
		return &licenseDomain.VerifyResult{OK: true}, nil
	}

	// Fallback trust path: tokens present in the activation store were
	// issued by us, even if the signature check cannot confirm it.
	exists, err := l.activationRepo.ExistsByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if exists {
		return &licenseDomain.VerifyResult{OK: true}, nil
	}

	return &licenseDomain.VerifyResult{OK: false, Message: messageInvalidToken}, nil
}

// Deactivate frees the device slot held by the token and denylists it.
// Both steps are idempotent, so deactivating an unknown token succeeds.
func (l *licenseUseCase) Deactivate(ctx context.Context, token string) error {
	return l.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := l.activationRepo.DeleteByToken(txCtx, token); err != nil {
			return err
		}
		return l.revokedTokenRepo.Revoke(txCtx, token)
	})
}

// RevokeToken performs the operator-side takedown. Same effect as Deactivate;
// kept separate so the admin surface reads as revocation.
func (l *licenseUseCase) RevokeToken(ctx context.Context, token string) error {
	return l.Deactivate(ctx, token)
}

// RemoveActivation frees the device slot without denylisting the token. The
// token stays verifiable until it expires or gets revoked.
func (l *licenseUseCase) RemoveActivation(ctx context.Context, token string) error {
	return l.activationRepo.DeleteByToken(ctx, token)
}

// CreateLicense creates a license with explicit labels, falling back to the
// defaults for blank customer and plan values.
func (l *licenseUseCase) CreateLicense(
	ctx context.Context,
	input *licenseDomain.CreateLicenseInput,
) (*licenseDomain.License, error) {
	customer := strings.TrimSpace(input.Customer)
	if customer == "" {
		customer = licenseDomain.DefaultCustomer
	}
	plan := strings.TrimSpace(input.Plan)
	if plan == "" {
		plan = licenseDomain.DefaultPlan
	}
	deviceLimit := input.DeviceLimit
	if deviceLimit < 1 {
		deviceLimit = 1
	}

	license := &licenseDomain.License{
		ID:          uuid.Must(uuid.NewV7()),
		Key:         strings.TrimSpace(input.Key),
		Customer:    customer,
		Plan:        plan,
		DeviceLimit: deviceLimit,
		IsActive:    input.IsActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.licenseRepo.Create(ctx, license); err != nil {
		return nil, err
	}

	return license, nil
}

// SetLicenseActive enables or disables a license by key.
func (l *licenseUseCase) SetLicenseActive(
	ctx context.Context,
	key string,
	active bool,
) (*licenseDomain.License, error) {
	license, err := l.licenseRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	license.IsActive = active
	if err := l.licenseRepo.Update(ctx, license); err != nil {
		return nil, err
	}

	return license, nil
}

// ListLicenses returns all licenses ordered by creation time.
func (l *licenseUseCase) ListLicenses(ctx context.Context) ([]*licenseDomain.License, error) {
	return l.licenseRepo.List(ctx)
}

// ListActivations returns all activations ordered by creation time.
func (l *licenseUseCase) ListActivations(ctx context.Context) ([]*licenseDomain.Activation, error) {
	return l.activationRepo.List(ctx)
}

// Stats returns the dashboard totals.
func (l *licenseUseCase) Stats(ctx context.Context) (*licenseDomain.Stats, error) {
	licenses, err := l.licenseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	activations, err := l.activationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	revoked, err := l.revokedTokenRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &licenseDomain.Stats{
		Licenses:      len(licenses),
		Activations:   len(activations),
		RevokedTokens: revoked,
	}, nil
}

// NewLicenseUseCase creates a new license use case instance with the provided dependencies.
func NewLicenseUseCase(
	txManager database.TxManager,
	licenseRepo LicenseRepository,
	activationRepo ActivationRepository,
	revokedTokenRepo RevokedTokenRepository,
	tokenAuthority licenseService.TokenAuthority,
	selfServicePrefix string,
) LicenseUseCase {
	return &licenseUseCase{
		txManager:         txManager,
		licenseRepo:       licenseRepo,
		activationRepo:    activationRepo,
		revokedTokenRepo:  revokedTokenRepo,
		tokenAuthority:    tokenAuthority,
		selfServicePrefix: selfServicePrefix,
	}
}
