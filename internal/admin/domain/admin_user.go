// Package domain defines the admin console entities: operator accounts and
// their browser sessions.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmapp/licensing/internal/errors"
)

// AdminUser is an operator account for the admin console.
type AdminUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an authenticated admin browser session. Sessions live in
// process memory; a restart logs every operator out.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Admin console errors.
var (
	// ErrAdminNotFound indicates no admin user with the given username exists.
	ErrAdminNotFound = errors.Wrap(errors.ErrNotFound, "admin user not found")

	// ErrAdminExists indicates the username is already taken.
	ErrAdminExists = errors.Wrap(errors.ErrConflict, "admin username exists")

	// ErrInvalidCredentials indicates a failed login attempt. The message is
	// deliberately identical for unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid username or password")
)
