package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// PostgreSQLActivationRepository implements Activation persistence for PostgreSQL.
// The activations table carries a UNIQUE (license_id, hwid) constraint, which
// makes Upsert the only way a fingerprint can occupy a device slot.
type PostgreSQLActivationRepository struct {
	db *sql.DB
}

// Upsert creates the activation row for (license_id, hwid) or refreshes its
// token if the pair is already activated.
func (p *PostgreSQLActivationRepository) Upsert(ctx context.Context, activation *licenseDomain.Activation) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO activations (id, license_id, hwid, token, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (license_id, hwid)
			  DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		activation.ID,
		activation.LicenseID,
		activation.HWID,
		activation.Token,
		activation.CreatedAt,
		activation.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert activation")
	}
	return nil
}

// ListByLicense returns all activations for a license ordered by creation time.
func (p *PostgreSQLActivationRepository) ListByLicense(
	ctx context.Context,
	licenseID uuid.UUID,
) ([]*licenseDomain.Activation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, license_id, hwid, token, created_at, updated_at
			  FROM activations WHERE license_id = $1 ORDER BY created_at`

	return p.scanActivations(querier.QueryContext(ctx, query, licenseID))
}

// List returns all activations ordered by creation time.
func (p *PostgreSQLActivationRepository) List(ctx context.Context) ([]*licenseDomain.Activation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, license_id, hwid, token, created_at, updated_at
			  FROM activations ORDER BY created_at`

	return p.scanActivations(querier.QueryContext(ctx, query))
}

// DeleteByToken removes every activation row carrying the given token.
// Zero matches is not an error; deactivation is idempotent.
func (p *PostgreSQLActivationRepository) DeleteByToken(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM activations WHERE token = $1`

	if _, err := querier.ExecContext(ctx, query, token); err != nil {
		return apperrors.Wrap(err, "failed to delete activations by token")
	}
	return nil
}

// ExistsByToken reports whether any activation row carries the given token.
// Supports the verification fallback path for structurally invalid tokens.
func (p *PostgreSQLActivationRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS(SELECT 1 FROM activations WHERE token = $1)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check activation by token")
	}
	return exists, nil
}

// scanActivations collects rows into activation entities.
func (p *PostgreSQLActivationRepository) scanActivations(
	rows *sql.Rows,
	err error,
) ([]*licenseDomain.Activation, error) {
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query activations")
	}
	defer func() { _ = rows.Close() }()

	var activations []*licenseDomain.Activation
	for rows.Next() {
		var activation licenseDomain.Activation
		if err := rows.Scan(
			&activation.ID,
			&activation.LicenseID,
			&activation.HWID,
			&activation.Token,
			&activation.CreatedAt,
			&activation.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan activation")
		}
		activations = append(activations, &activation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate activations")
	}

	return activations, nil
}

// NewPostgreSQLActivationRepository creates a new PostgreSQL Activation repository.
func NewPostgreSQLActivationRepository(db *sql.DB) *PostgreSQLActivationRepository {
	return &PostgreSQLActivationRepository{db: db}
}
