package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/farmapp/licensing/internal/database"
	apperrors "github.com/farmapp/licensing/internal/errors"
)

// PostgreSQLRevokedTokenRepository implements the append-only denylist for
// PostgreSQL. Tokens are only ever added; there is no delete path.
type PostgreSQLRevokedTokenRepository struct {
	db *sql.DB
}

// Revoke appends the token to the denylist. Re-revoking an already-revoked
// token is a no-op (idempotent insert).
func (p *PostgreSQLRevokedTokenRepository) Revoke(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO revoked_tokens (id, token, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (token) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, uuid.Must(uuid.NewV7()), token, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// IsRevoked reports whether the token is present in the denylist.
func (p *PostgreSQLRevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token = $1)`

	var revoked bool
	if err := querier.QueryRowContext(ctx, query, token).Scan(&revoked); err != nil {
		return false, apperrors.Wrap(err, "failed to check revoked token")
	}
	return revoked, nil
}

// Count returns the size of the denylist.
func (p *PostgreSQLRevokedTokenRepository) Count(ctx context.Context) (int, error) {
	querier := database.GetTx(ctx, p.db)

	var count int
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count revoked tokens")
	}
	return count, nil
}

// NewPostgreSQLRevokedTokenRepository creates a new PostgreSQL RevokedToken repository.
func NewPostgreSQLRevokedTokenRepository(db *sql.DB) *PostgreSQLRevokedTokenRepository {
	return &PostgreSQLRevokedTokenRepository{db: db}
}
