// Package mocks provides mock implementations for admin service interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockPasswordService is a mock implementation of service.PasswordService.
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) Verify(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

// MockSessionStore is a mock implementation of service.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Valid(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockSessionStore) Destroy(token string) {
	m.Called(token)
}
