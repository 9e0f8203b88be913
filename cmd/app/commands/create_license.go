package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/farmapp/licensing/internal/app"
	"github.com/farmapp/licensing/internal/config"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	licenseUsecase "github.com/farmapp/licensing/internal/license/usecase"
)

// RunCreateLicense creates a new license key.
//
// Requirements: Database must be migrated and accessible.
func RunCreateLicense(
	ctx context.Context,
	key, customer, plan string,
	deviceLimit int,
	active bool,
	io IOTuple,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	useCase, err := container.LicenseUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize license use case: %w", err)
	}

	return createLicense(ctx, useCase, logger, key, customer, plan, deviceLimit, active, io)
}

func createLicense(
	ctx context.Context,
	useCase licenseUsecase.LicenseUseCase,
	logger *slog.Logger,
	key, customer, plan string,
	deviceLimit int,
	active bool,
	io IOTuple,
) error {
	license, err := useCase.CreateLicense(ctx, &licenseDomain.CreateLicenseInput{
		Key:         key,
		Customer:    customer,
		Plan:        plan,
		DeviceLimit: deviceLimit,
		IsActive:    active,
	})
	if err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}

	fmt.Fprintf(io.Writer, "License created\n")
	fmt.Fprintf(io.Writer, "  Key:          %s\n", license.Key)
	fmt.Fprintf(io.Writer, "  Customer:     %s\n", license.Customer)
	fmt.Fprintf(io.Writer, "  Plan:         %s\n", license.Plan)
	fmt.Fprintf(io.Writer, "  Device limit: %d\n", license.DeviceLimit)
	fmt.Fprintf(io.Writer, "  Active:       %t\n", license.IsActive)

	logger.Info("license created",
		slog.String("license_key", license.Key),
		slog.Int("device_limit", license.DeviceLimit),
		slog.Bool("active", license.IsActive),
	)

	return nil
}
