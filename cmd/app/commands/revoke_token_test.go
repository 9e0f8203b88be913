package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	licenseMocks "github.com/farmapp/licensing/internal/license/usecase/mocks"
)

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("success", func(t *testing.T) {
		mockUseCase := &licenseMocks.MockLicenseUseCase{}
		mockUseCase.On("RevokeToken", ctx, "signed-token").Return(nil)

		var out bytes.Buffer
		err := revokeToken(ctx, mockUseCase, logger, "signed-token", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), "Token revoked")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty-token", func(t *testing.T) {
		mockUseCase := &licenseMocks.MockLicenseUseCase{}

		var out bytes.Buffer
		err := revokeToken(ctx, mockUseCase, logger, "", IOTuple{Writer: &out})

		require.Error(t, err)
		mockUseCase.AssertNotCalled(t, "RevokeToken")
	})

	t.Run("store-failure", func(t *testing.T) {
		mockUseCase := &licenseMocks.MockLicenseUseCase{}
		mockUseCase.On("RevokeToken", ctx, "signed-token").
			Return(errors.New("connection refused"))

		var out bytes.Buffer
		err := revokeToken(ctx, mockUseCase, logger, "signed-token", IOTuple{Writer: &out})

		require.Error(t, err)
	})
}
