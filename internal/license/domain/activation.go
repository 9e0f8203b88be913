package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activation links one license to one device fingerprint and carries the
// most-recently-issued token for that pair. At most one row exists per
// (license_id, hwid) pair; re-activation updates the row in place.
type Activation struct {
	ID        uuid.UUID
	LicenseID uuid.UUID
	HWID      string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivateInput contains the parameters of an activation request.
type ActivateInput struct {
	LicenseKey  string
	HWID        string
	DeviceLimit int
}

// ActivateOutput contains the result of a successful activation.
type ActivateOutput struct {
	Token string
}
