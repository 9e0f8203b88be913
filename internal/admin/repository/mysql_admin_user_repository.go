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

// MySQLAdminUserRepository implements AdminUser persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAdminUserRepository struct {
	db *sql.DB
}

// Create inserts a new admin user. Returns ErrAdminExists when the username is taken.
func (m *MySQLAdminUserRepository) Create(ctx context.Context, user *adminDomain.AdminUser) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO admin_users (id, username, password_hash, created_at)
			  VALUES (?, ?, ?, ?)`

	idBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return adminDomain.ErrAdminExists
		}
		return apperrors.Wrap(err, "failed to create admin user")
	}
	return nil
}

// GetByUsername retrieves an admin user by username.
func (m *MySQLAdminUserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*adminDomain.AdminUser, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, password_hash, created_at
			  FROM admin_users WHERE username = ?`

	var user adminDomain.AdminUser
	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, username).Scan(
		&idBytes,
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

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal admin user UUID")
	}

	return &user, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLAdminUserRepository creates a new MySQL AdminUser repository.
func NewMySQLAdminUserRepository(db *sql.DB) *MySQLAdminUserRepository {
	return &MySQLAdminUserRepository{db: db}
}
