package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// MySQLLicenseRepository implements License persistence for MySQL.
// UUIDs are stored as BINARY(16); transaction support via database.GetTx().
type MySQLLicenseRepository struct {
	db *sql.DB
}

// Create inserts a new License. Returns ErrLicenseExists when the key is taken.
func (m *MySQLLicenseRepository) Create(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO licenses (id, license_key, customer, plan, device_limit, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	idBytes, err := license.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		license.Key,
		license.Customer,
		license.Plan,
		license.DeviceLimit,
		license.IsActive,
		license.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return licenseDomain.ErrLicenseExists
		}
		return apperrors.Wrap(err, "failed to create license")
	}
	return nil
}

// GetByKey retrieves a License by its key. Returns ErrLicenseNotFound if the
// key is unknown.
func (m *MySQLLicenseRepository) GetByKey(ctx context.Context, key string) (*licenseDomain.License, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, license_key, customer, plan, device_limit, is_active, created_at
			  FROM licenses WHERE license_key = ?`

	var license licenseDomain.License
	var idBytes []byte

	err := querier.QueryRowContext(ctx, query, key).Scan(
		&idBytes,
		&license.Key,
		&license.Customer,
		&license.Plan,
		&license.DeviceLimit,
		&license.IsActive,
		&license.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, licenseDomain.ErrLicenseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get license")
	}

	if err := license.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal license UUID")
	}

	return &license, nil
}

// Update modifies an existing License (labels, device limit, active flag).
func (m *MySQLLicenseRepository) Update(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE licenses
			  SET customer = ?,
				  plan = ?,
				  device_limit = ?,
				  is_active = ?
			  WHERE id = ?`

	idBytes, err := license.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		license.Customer,
		license.Plan,
		license.DeviceLimit,
		license.IsActive,
		idBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update license")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check license update result")
	}
	if rows == 0 {
		return licenseDomain.ErrLicenseNotFound
	}

	return nil
}

// List returns all licenses ordered by creation time.
func (m *MySQLLicenseRepository) List(ctx context.Context) ([]*licenseDomain.License, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, license_key, customer, plan, device_limit, is_active, created_at
			  FROM licenses ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list licenses")
	}
	defer func() { _ = rows.Close() }()

	var licenses []*licenseDomain.License
	for rows.Next() {
		var license licenseDomain.License
		var idBytes []byte
		if err := rows.Scan(
			&idBytes,
			&license.Key,
			&license.Customer,
			&license.Plan,
			&license.DeviceLimit,
			&license.IsActive,
			&license.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan license")
		}
		if err := license.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal license UUID")
		}
		licenses = append(licenses, &license)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate licenses")
	}

	return licenses, nil
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

// NewMySQLLicenseRepository creates a new MySQL License repository.
func NewMySQLLicenseRepository(db *sql.DB) *MySQLLicenseRepository {
	return &MySQLLicenseRepository{db: db}
}
