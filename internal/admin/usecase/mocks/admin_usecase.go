package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	adminDomain "github.com/farmapp/licensing/internal/admin/domain"
)

// MockAdminUseCase is a mock implementation of usecase.AdminUseCase.
type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAdminUseCase) Logout(token string) {
	m.Called(token)
}

func (m *MockAdminUseCase) IsAuthenticated(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockAdminUseCase) EnsureAdmin(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockAdminUseCase) CreateAdmin(
	ctx context.Context,
	username, password string,
) (*adminDomain.AdminUser, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.AdminUser), args.Error(1)
}
