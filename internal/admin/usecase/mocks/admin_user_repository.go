// Package mocks provides mock implementations for admin usecase interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	adminDomain "github.com/farmapp/licensing/internal/admin/domain"
)

// MockAdminUserRepository is a mock implementation of usecase.AdminUserRepository.
type MockAdminUserRepository struct {
	mock.Mock
}

func (m *MockAdminUserRepository) Create(ctx context.Context, user *adminDomain.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminUserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*adminDomain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.AdminUser), args.Error(1)
}
