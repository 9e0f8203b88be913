// Package mocks provides mock implementations for testing transaction handling.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of TxManager for testing.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// FakeTxManager executes the transactional function inline without a
// database. The function's error is propagated like a rolled-back
// transaction would.
type FakeTxManager struct{}

// WithTx runs the function against the same context.
func (FakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
