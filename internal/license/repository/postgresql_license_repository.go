// Package repository provides PostgreSQL and MySQL persistence for licenses,
// activations, and the revoked-token denylist.
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

// PostgreSQLLicenseRepository implements License persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLLicenseRepository struct {
	db *sql.DB
}

// Create inserts a new License. Returns ErrLicenseExists when the key is taken.
func (p *PostgreSQLLicenseRepository) Create(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO licenses (id, license_key, customer, plan, device_limit, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		license.ID,
		license.Key,
		license.Customer,
		license.Plan,
		license.DeviceLimit,
		license.IsActive,
		license.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return licenseDomain.ErrLicenseExists
		}
		return apperrors.Wrap(err, "failed to create license")
	}
	return nil
}

// GetByKey retrieves a License by its key. Returns ErrLicenseNotFound if the
// key is unknown.
func (p *PostgreSQLLicenseRepository) GetByKey(ctx context.Context, key string) (*licenseDomain.License, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, license_key, customer, plan, device_limit, is_active, created_at
			  FROM licenses WHERE license_key = $1`

	var license licenseDomain.License

	err := querier.QueryRowContext(ctx, query, key).Scan(
		&license.ID,
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

	return &license, nil
}

// Update modifies an existing License (labels, device limit, active flag).
func (p *PostgreSQLLicenseRepository) Update(ctx context.Context, license *licenseDomain.License) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE licenses
			  SET customer = $1,
				  plan = $2,
				  device_limit = $3,
				  is_active = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		license.Customer,
		license.Plan,
		license.DeviceLimit,
		license.IsActive,
		license.ID,
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
func (p *PostgreSQLLicenseRepository) List(ctx context.Context) ([]*licenseDomain.License, error) {
	querier := database.GetTx(ctx, p.db)

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
		if err := rows.Scan(
			&license.ID,
			&license.Key,
			&license.Customer,
			&license.Plan,
			&license.DeviceLimit,
			&license.IsActive,
			&license.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan license")
		}
		licenses = append(licenses, &license)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate licenses")
	}

	return licenses, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLLicenseRepository creates a new PostgreSQL License repository.
func NewPostgreSQLLicenseRepository(db *sql.DB) *PostgreSQLLicenseRepository {
	return &PostgreSQLLicenseRepository{db: db}
}
