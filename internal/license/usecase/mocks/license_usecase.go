package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// MockLicenseUseCase is a mock implementation of LicenseUseCase for testing.
type MockLicenseUseCase struct {
	mock.Mock
}

// Activate mocks the Activate method of LicenseUseCase.
func (m *MockLicenseUseCase) Activate(
	ctx context.Context,
	input *licenseDomain.ActivateInput,
) (*licenseDomain.ActivateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.ActivateOutput), args.Error(1)
}

// Verify mocks the Verify method of LicenseUseCase.
func (m *MockLicenseUseCase) Verify(ctx context.Context, token string) (*licenseDomain.VerifyResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.VerifyResult), args.Error(1)
}

// Deactivate mocks the Deactivate method of LicenseUseCase.
func (m *MockLicenseUseCase) Deactivate(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// RevokeToken mocks the RevokeToken method of LicenseUseCase.
func (m *MockLicenseUseCase) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// RemoveActivation mocks the RemoveActivation method of LicenseUseCase.
func (m *MockLicenseUseCase) RemoveActivation(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// CreateLicense mocks the CreateLicense method of LicenseUseCase.
func (m *MockLicenseUseCase) CreateLicense(
	ctx context.Context,
	input *licenseDomain.CreateLicenseInput,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// SetLicenseActive mocks the SetLicenseActive method of LicenseUseCase.
func (m *MockLicenseUseCase) SetLicenseActive(
	ctx context.Context,
	key string,
	active bool,
) (*licenseDomain.License, error) {
	args := m.Called(ctx, key, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// ListLicenses mocks the ListLicenses method of LicenseUseCase.
func (m *MockLicenseUseCase) ListLicenses(ctx context.Context) ([]*licenseDomain.License, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.License), args.Error(1)
}

// ListActivations mocks the ListActivations method of LicenseUseCase.
func (m *MockLicenseUseCase) ListActivations(ctx context.Context) ([]*licenseDomain.Activation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.Activation), args.Error(1)
}

// Stats mocks the Stats method of LicenseUseCase.
func (m *MockLicenseUseCase) Stats(ctx context.Context) (*licenseDomain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.Stats), args.Error(1)
}
