// Package mocks provides mock implementations for testing the token authority.
package mocks

import (
	"github.com/stretchr/testify/mock"

	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	licenseService "github.com/farmapp/licensing/internal/license/service"
)

// MockTokenAuthority is a mock implementation of TokenAuthority for testing.
type MockTokenAuthority struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenAuthority.
func (m *MockTokenAuthority) Issue(input licenseService.IssueTokenInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

// Verify mocks the Verify method of TokenAuthority.
func (m *MockTokenAuthority) Verify(token string) (*licenseDomain.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licenseDomain.TokenClaims), args.Error(1)
}
