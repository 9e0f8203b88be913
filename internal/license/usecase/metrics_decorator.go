package usecase

import (
	"context"
	"time"

	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	"github.com/farmapp/licensing/internal/metrics"
)

// licenseUseCaseWithMetrics decorates LicenseUseCase with metrics instrumentation.
type licenseUseCaseWithMetrics struct {
	next    LicenseUseCase
	metrics metrics.BusinessMetrics
}

// NewLicenseUseCaseWithMetrics wraps a LicenseUseCase with metrics recording.
func NewLicenseUseCaseWithMetrics(useCase LicenseUseCase, m metrics.BusinessMetrics) LicenseUseCase {
	return &licenseUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration with a success/error status.
func (l *licenseUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "license", operation, status)
	l.metrics.RecordDuration(ctx, "license", operation, time.Since(start), status)
}

// Activate records metrics for activation operations.
func (l *licenseUseCaseWithMetrics) Activate(
	ctx context.Context,
	input *licenseDomain.ActivateInput,
) (*licenseDomain.ActivateOutput, error) {
	start := time.Now()
	output, err := l.next.Activate(ctx, input)
	l.record(ctx, "activate", start, err)
	return output, err
}

// Verify records metrics for verification operations.
func (l *licenseUseCaseWithMetrics) Verify(ctx context.Context, token string) (*licenseDomain.VerifyResult, error) {
	start := time.Now()
	result, err := l.next.Verify(ctx, token)
	l.record(ctx, "verify", start, err)
	return result, err
}

// Deactivate records metrics for deactivation operations.
func (l *licenseUseCaseWithMetrics) Deactivate(ctx context.Context, token string) error {
	start := time.Now()
	err := l.next.Deactivate(ctx, token)
	l.record(ctx, "deactivate", start, err)
	return err
}

// RevokeToken records metrics for token revocation operations.
func (l *licenseUseCaseWithMetrics) RevokeToken(ctx context.Context, token string) error {
	start := time.Now()
	err := l.next.RevokeToken(ctx, token)
	l.record(ctx, "revoke_token", start, err)
	return err
}

// RemoveActivation records metrics for activation removal operations.
func (l *licenseUseCaseWithMetrics) RemoveActivation(ctx context.Context, token string) error {
	start := time.Now()
	err := l.next.RemoveActivation(ctx, token)
	l.record(ctx, "remove_activation", start, err)
	return err
}

// CreateLicense records metrics for license creation operations.
func (l *licenseUseCaseWithMetrics) CreateLicense(
	ctx context.Context,
	input *licenseDomain.CreateLicenseInput,
) (*licenseDomain.License, error) {
	start := time.Now()
	license, err := l.next.CreateLicense(ctx, input)
	l.record(ctx, "license_create", start, err)
	return license, err
}

// SetLicenseActive records metrics for license toggle operations.
func (l *licenseUseCaseWithMetrics) SetLicenseActive(
	ctx context.Context,
	key string,
	active bool,
) (*licenseDomain.License, error) {
	start := time.Now()
	license, err := l.next.SetLicenseActive(ctx, key, active)
	l.record(ctx, "license_toggle", start, err)
	return license, err
}

// ListLicenses records metrics for license list operations.
func (l *licenseUseCaseWithMetrics) ListLicenses(ctx context.Context) ([]*licenseDomain.License, error) {
	start := time.Now()
	licenses, err := l.next.ListLicenses(ctx)
	l.record(ctx, "license_list", start, err)
	return licenses, err
}

// ListActivations records metrics for activation list operations.
func (l *licenseUseCaseWithMetrics) ListActivations(ctx context.Context) ([]*licenseDomain.Activation, error) {
	start := time.Now()
	activations, err := l.next.ListActivations(ctx)
	l.record(ctx, "activation_list", start, err)
	return activations, err
}

// Stats records metrics for dashboard stats operations.
func (l *licenseUseCaseWithMetrics) Stats(ctx context.Context) (*licenseDomain.Stats, error) {
	start := time.Now()
	stats, err := l.next.Stats(ctx)
	l.record(ctx, "stats", start, err)
	return stats, err
}
