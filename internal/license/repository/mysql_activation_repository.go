package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
)

// MySQLActivationRepository implements Activation persistence for MySQL.
// UUIDs are stored as BINARY(16); the activations table carries a UNIQUE
// (license_id, hwid) constraint, which makes Upsert the only way a
// fingerprint can occupy a device slot.
type MySQLActivationRepository struct {
	db *sql.DB
}

// Upsert creates the activation row for (license_id, hwid) or refreshes its
// token if the pair is already activated.
func (m *MySQLActivationRepository) Upsert(ctx context.Context, activation *licenseDomain.Activation) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO activations (id, license_id, hwid, token, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE token = VALUES(token), updated_at = VALUES(updated_at)`

	idBytes, err := activation.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	licenseIDBytes, err := activation.LicenseID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal license UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		licenseIDBytes,
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
func (m *MySQLActivationRepository) ListByLicense(
	ctx context.Context,
	licenseID uuid.UUID,
) ([]*licenseDomain.Activation, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, license_id, hwid, token, created_at, updated_at
			  FROM activations WHERE license_id = ? ORDER BY created_at`

	licenseIDBytes, err := licenseID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal license UUID")
	}

	return m.scanActivations(querier.QueryContext(ctx, query, licenseIDBytes))
}

// List returns all activations ordered by creation time.
func (m *MySQLActivationRepository) List(ctx context.Context) ([]*licenseDomain.Activation, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, license_id, hwid, token, created_at, updated_at
			  FROM activations ORDER BY created_at`

	return m.scanActivations(querier.QueryContext(ctx, query))
}

// DeleteByToken removes every activation row carrying the given token.
// Zero matches is not an error; deactivation is idempotent.
func (m *MySQLActivationRepository) DeleteByToken(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM activations WHERE token = ?`

	if _, err := querier.ExecContext(ctx, query, token); err != nil {
		return apperrors.Wrap(err, "failed to delete activations by token")
	}
	return nil
}

// ExistsByToken reports whether any activation row carries the given token.
// Supports the verification fallback path for structurally invalid tokens.
func (m *MySQLActivationRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS(SELECT 1 FROM activations WHERE token = ?)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check activation by token")
	}
	return exists, nil
}

// scanActivations collects rows into activation entities.
func (m *MySQLActivationRepository) scanActivations(
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
		var idBytes, licenseIDBytes []byte
		if err := rows.Scan(
			&idBytes,
			&licenseIDBytes,
			&activation.HWID,
			&activation.Token,
			&activation.CreatedAt,
			&activation.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan activation")
		}
		if err := activation.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal activation UUID")
		}
		if err := activation.LicenseID.UnmarshalBinary(licenseIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal license UUID")
		}
		activations = append(activations, &activation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate activations")
	}

	return activations, nil
}

// NewMySQLActivationRepository creates a new MySQL Activation repository.
func NewMySQLActivationRepository(db *sql.DB) *MySQLActivationRepository {
	return &MySQLActivationRepository{db: db}
}
