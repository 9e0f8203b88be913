package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/farmapp/licensing/internal/app"
	"github.com/farmapp/licensing/internal/config"
	licenseUsecase "github.com/farmapp/licensing/internal/license/usecase"
)

// RunRevokeToken denylists an issued token and frees the device slot that
// carries it. Clients holding the token fail verification from this point on.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeToken(ctx context.Context, token string, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	useCase, err := container.LicenseUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize license use case: %w", err)
	}

	return revokeToken(ctx, useCase, logger, token, io)
}

func revokeToken(
	ctx context.Context,
	useCase licenseUsecase.LicenseUseCase,
	logger *slog.Logger,
	token string,
	io IOTuple,
) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if err := useCase.RevokeToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	fmt.Fprintln(io.Writer, "Token revoked")

	logger.Info("token revoked")

	return nil
}
