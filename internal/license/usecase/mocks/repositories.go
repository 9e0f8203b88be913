// Package mocks provides mock implementations for testing license use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// MockLicenseRepository is a mock implementation of LicenseRepository for testing.
type MockLicenseRepository struct {
	mock.Mock
}

// Create mocks the Create method of LicenseRepository.
func (m *MockLicenseRepository) Create(ctx context.Context, license *licenseDomain.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

// GetByKey mocks the GetByKey method of LicenseRepository.
func (m *MockLicenseRepository) GetByKey(ctx context.Context, key string) (*licenseDomain.License, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.License), args.Error(1)
}

// Update mocks the Update method of LicenseRepository.
func (m *MockLicenseRepository) Update(ctx context.Context, license *licenseDomain.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

// List mocks the List method of LicenseRepository.
func (m *MockLicenseRepository) List(ctx context.Context) ([]*licenseDomain.License, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.License), args.Error(1)
}

// MockActivationRepository is a mock implementation of ActivationRepository for testing.
type MockActivationRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of ActivationRepository.
func (m *MockActivationRepository) Upsert(ctx context.Context, activation *licenseDomain.Activation) error {
	args := m.Called(ctx, activation)
	return args.Error(0)
}

// ListByLicense mocks the ListByLicense method of ActivationRepository.
func (m *MockActivationRepository) ListByLicense(
	ctx context.Context,
	licenseID uuid.UUID,
) ([]*licenseDomain.Activation, error) {
	args := m.Called(ctx, licenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.Activation), args.Error(1)
}

// List mocks the List method of ActivationRepository.
func (m *MockActivationRepository) List(ctx context.Context) ([]*licenseDomain.Activation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licenseDomain.Activation), args.Error(1)
}

// DeleteByToken mocks the DeleteByToken method of ActivationRepository.
func (m *MockActivationRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// ExistsByToken mocks the ExistsByToken method of ActivationRepository.
func (m *MockActivationRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockRevokedTokenRepository is a mock implementation of RevokedTokenRepository for testing.
type MockRevokedTokenRepository struct {
	mock.Mock
}

// Revoke mocks the Revoke method of RevokedTokenRepository.
func (m *MockRevokedTokenRepository) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// IsRevoked mocks the IsRevoked method of RevokedTokenRepository.
func (m *MockRevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// Count mocks the Count method of RevokedTokenRepository.
func (m *MockRevokedTokenRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
