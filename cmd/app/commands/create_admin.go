package commands

import (
	"context"
	"fmt"
	"log/slog"

	adminUsecase "github.com/farmapp/licensing/internal/admin/usecase"
	"github.com/farmapp/licensing/internal/app"
	"github.com/farmapp/licensing/internal/config"
)

// RunCreateAdmin creates an admin console operator account. The password is
// hashed before storage; it is never printed back.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAdmin(ctx context.Context, username, password string, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	useCase, err := container.AdminUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize admin use case: %w", err)
	}

	return createAdmin(ctx, useCase, logger, username, password, io)
}

func createAdmin(
	ctx context.Context,
	useCase adminUsecase.AdminUseCase,
	logger *slog.Logger,
	username, password string,
	io IOTuple,
) error {
	user, err := useCase.CreateAdmin(ctx, username, password)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	fmt.Fprintf(io.Writer, "Admin user created\n")
	fmt.Fprintf(io.Writer, "  ID:       %s\n", user.ID)
	fmt.Fprintf(io.Writer, "  Username: %s\n", user.Username)

	logger.Info("admin user created", slog.String("username", user.Username))

	return nil
}
