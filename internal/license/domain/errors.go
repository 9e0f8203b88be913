package domain

import (
	"github.com/farmapp/licensing/internal/errors"
)

// Licensing protocol errors.
var (
	// ErrLicenseNotFound indicates a license with the specified key was not found.
	ErrLicenseNotFound = errors.Wrap(errors.ErrNotFound, "license not found")

	// ErrLicenseExists indicates a license with the same key already exists.
	ErrLicenseExists = errors.Wrap(errors.ErrConflict, "license key exists")

	// ErrInvalidLicenseKey indicates the key is unknown and does not match the
	// accepted self-service naming convention.
	ErrInvalidLicenseKey = errors.Wrap(errors.ErrInvalidInput, "invalid license key")

	// ErrLicenseInactive indicates the license has been disabled by an operator.
	ErrLicenseInactive = errors.Wrap(errors.ErrForbidden, "license inactive")

	// ErrDeviceLimitReached indicates the license already has device_limit
	// distinct fingerprints activated.
	ErrDeviceLimitReached = errors.Wrap(errors.ErrForbidden, "device limit reached")

	// ErrActivationNotFound indicates no activation matches the given token.
	ErrActivationNotFound = errors.Wrap(errors.ErrNotFound, "activation not found")
)
