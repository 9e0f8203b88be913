package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
)

// MySQLRevokedTokenRepository implements the append-only denylist for MySQL.
// Tokens are only ever added; there is no delete path.
type MySQLRevokedTokenRepository struct {
	db *sql.DB
}

// Revoke appends the token to the denylist. Re-revoking an already-revoked
// token is a no-op (idempotent insert).
func (m *MySQLRevokedTokenRepository) Revoke(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO revoked_tokens (id, token, created_at)
			  VALUES (?, ?, ?)`

	idBytes, err := uuid.Must(uuid.NewV7()).MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, token, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// IsRevoked reports whether the token is present in the denylist.
func (m *MySQLRevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token = ?)`

	var revoked bool
	if err := querier.QueryRowContext(ctx, query, token).Scan(&revoked); err != nil {
		return false, apperrors.Wrap(err, "failed to check revoked token")
	}
	return revoked, nil
}

// Count returns the size of the denylist.
func (m *MySQLRevokedTokenRepository) Count(ctx context.Context) (int, error) {
	querier := database.GetTx(ctx, m.db)

	var count int
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count revoked tokens")
	}
	return count, nil
}

// NewMySQLRevokedTokenRepository creates a new MySQL RevokedToken repository.
func NewMySQLRevokedTokenRepository(db *sql.DB) *MySQLRevokedTokenRepository {
	return &MySQLRevokedTokenRepository{db: db}
}
