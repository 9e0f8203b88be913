// Package domain defines the core licensing entities: licenses, activations,
// and the revoked-token denylist.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// License represents a purchased license key and its device allowance.
// Licenses are never physically deleted; takedown happens through the
// active flag and token revocation.
type License struct {
	ID          uuid.UUID
	Key         string
	Customer    string
	Plan        string
	DeviceLimit int
	IsActive    bool
	CreatedAt   time.Time
}

// CreateLicenseInput contains the parameters for creating a new license.
type CreateLicenseInput struct {
	Key         string
	Customer    string
	Plan        string
	DeviceLimit int
	IsActive    bool
}

// Defaults applied when a license is created without explicit labels,
// including the lazy self-service path.
const (
	DefaultCustomer = "Customer"
	DefaultPlan     = "standard"
)

// Stats holds the dashboard totals.
type Stats struct {
	Licenses      int
	Activations   int
	RevokedTokens int
}
