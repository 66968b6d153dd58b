package revokedtokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/curexhq/curex/internal/common"
	"github.com/curexhq/curex/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements the revocation store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// IsRevoked reports whether a revocation record exists for jti.
func (r *PostgresRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)
	`
	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return revoked, nil
}

// Revoke inserts a revocation record. The unique index on jti turns a
// duplicate submission into common.ErrAlreadyRevoked, which is what keeps
// concurrent rotations of the same refresh token single-winner.
func (r *PostgresRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, jti, expiresAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrAlreadyRevoked
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// PurgeExpired deletes all records whose expiry is strictly before asOf and
// returns the number of rows deleted.
func (r *PostgresRepository) PurgeExpired(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		DELETE FROM revoked_tokens
		WHERE expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return deleted, nil
}
