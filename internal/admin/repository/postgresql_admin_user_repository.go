// Package repository provides persistence implementations for admin user accounts.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	adminDomain "github.com/farmapp/licensing/internal/admin/domain"
	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
)

// PostgreSQLAdminUserRepository implements AdminUser persistence for PostgreSQL.
type PostgreSQLAdminUserRepository struct {
	db *sql.DB
}

// Create inserts a new admin user. Returns ErrAdminExists when the username is taken.
func (p *PostgreSQLAdminUserRepository) Create(ctx context.Context, user *adminDomain.AdminUser) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO admin_users (id, username, password_hash, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return adminDomain.ErrAdminExists
		}
		return apperrors.Wrap(err, "failed to create admin user")
	}
	return nil
}

// GetByUsername retrieves an admin user by username.
func (p *PostgreSQLAdminUserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*adminDomain.AdminUser, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, username, password_hash, created_at
			  FROM admin_users WHERE username = $1`

	var user adminDomain.AdminUser
	err := querier.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, adminDomain.ErrAdminNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get admin user")
	}

	return &user, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLAdminUserRepository creates a new PostgreSQL AdminUser repository.
func NewPostgreSQLAdminUserRepository(db *sql.DB) *PostgreSQLAdminUserRepository {
	return &PostgreSQLAdminUserRepository{db: db}
}
