// Package usecase implements the admin console business logic: operator
// authentication and account management.
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	adminDomain "github.com/farmapp/licensing/internal/admin/domain"
	adminService "github.com/farmapp/licensing/internal/admin/service"
	customValidation "github.com/farmapp/licensing/internal/validation"
)

// AdminUserRepository defines the interface for AdminUser persistence operations.
type AdminUserRepository interface {
	Create(ctx context.Context, user *adminDomain.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*adminDomain.AdminUser, error)
}

// AdminUseCase defines the admin console business logic.
type AdminUseCase interface {
	// Login verifies the credentials and starts a session, returning its token.
	Login(ctx context.Context, username, password string) (string, error)

	// Logout destroys the session. Unknown tokens are a no-op.
	Logout(token string)

	// IsAuthenticated reports whether the session token is live.
	IsAuthenticated(token string) bool

	// CreateAdmin creates a new operator account with a hashed password.
	CreateAdmin(ctx context.Context, username, password string) (*adminDomain.AdminUser, error)

	// EnsureAdmin creates the bootstrap operator account if it does not exist.
	// Unlike CreateAdmin it does not enforce password strength; the credentials
	// come from deployment configuration, not operator input.
	EnsureAdmin(ctx context.Context, username, password string) error
}

// adminUseCase implements the AdminUseCase interface.
type adminUseCase struct {
	adminRepo       AdminUserRepository
	passwordService adminService.PasswordService
	sessionStore    adminService.SessionStore
}

// Login verifies the credentials against the stored hash and starts a session.
// Unknown usernames and wrong passwords fail identically.
func (a *adminUseCase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", adminDomain.ErrInvalidCredentials
	}

	if !a.passwordService.Verify(password, user.PasswordHash) {
		return "", adminDomain.ErrInvalidCredentials
	}

	return a.sessionStore.Create()
}

// Logout destroys the session.
func (a *adminUseCase) Logout(token string) {
	a.sessionStore.Destroy(token)
}

// IsAuthenticated reports whether the session token is live.
func (a *adminUseCase) IsAuthenticated(token string) bool {
	if token == "" {
		return false
	}
	return a.sessionStore.Valid(token)
}

// validateCreateAdminInput validates new operator credentials.
func validateCreateAdminInput(username, password string) error {
	err := validation.Errors{
		"username": validation.Validate(username,
			validation.Required.Error("username is required"),
			customValidation.NotBlank,
			validation.Length(3, 255).Error("username must be between 3 and 255 characters"),
		),
		"password": validation.Validate(password,
			validation.Required.Error("password is required"),
			customValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	}.Filter()
	return customValidation.WrapValidationError(err)
}

// CreateAdmin creates a new operator account with a hashed password.
func (a *adminUseCase) CreateAdmin(
	ctx context.Context,
	username, password string,
) (*adminDomain.AdminUser, error) {
	username = strings.TrimSpace(username)
	if err := validateCreateAdminInput(username, password); err != nil {
		return nil, err
	}

	hash, err := a.passwordService.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &adminDomain.AdminUser{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.adminRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureAdmin creates the bootstrap operator account if it does not exist.
func (a *adminUseCase) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	if _, err := a.adminRepo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, adminDomain.ErrAdminNotFound) {
		return err
	}

	hash, err := a.passwordService.Hash(password)
	if err != nil {
		return err
	}

	user := &adminDomain.AdminUser{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.adminRepo.Create(ctx, user); err != nil && !errors.Is(err, adminDomain.ErrAdminExists) {
		return err
	}
	return nil
}

// NewAdminUseCase creates a new admin use case instance with the provided dependencies.
func NewAdminUseCase(
	adminRepo AdminUserRepository,
	passwordService adminService.PasswordService,
	sessionStore adminService.SessionStore,
) AdminUseCase {
	return &adminUseCase{
		adminRepo:       adminRepo,
		passwordService: passwordService,
		sessionStore:    sessionStore,
	}
}
