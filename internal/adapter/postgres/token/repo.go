// Package token implements the refresh-token repository using PostgreSQL.
// Tokens are stored hashed; the raw value never touches the database.
package token

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/risinglab/rising-backend/internal/adapter/postgres"
	"github.com/risinglab/rising-backend/internal/domain"
)

const table = "refresh_tokens"

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new refresh-token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Store saves a hashed refresh token for a user.
func (r *Repo) Store(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	sb := postgres.Builder().
		Insert(table).
		Columns("user_id", "token_hash", "expires_at").
		Values(userID, tokenHash, expiresAt)

	sql, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build token insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "refresh_token", userID)
	}

	return nil
}

// GetByHash returns a stored token by hash if it has not expired.
// Returns domain.ErrNotFound for unknown or expired hashes.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	sb := postgres.Builder().
		Select("id", "user_id", "token_hash", "expires_at", "created_at").
		From(table).
		Where(sq.Eq{"token_hash": tokenHash}).
		Where(sq.Expr("expires_at > now()"))

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build token query: %w", err)
	}

	var t domain.RefreshToken
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return &t, nil
}

// DeleteByHash revokes a single refresh token. Unknown hashes are not an error.
func (r *Repo) DeleteByHash(ctx context.Context, tokenHash string) error {
	sb := postgres.Builder().Delete(table).Where(sq.Eq{"token_hash": tokenHash})

	sql, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build token delete: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return nil
}

// DeleteByUser revokes all refresh tokens of a user (logout everywhere).
func (r *Repo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	sb := postgres.Builder().Delete(table).Where(sq.Eq{"user_id": userID})

	sql, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build token delete: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "refresh_token", userID)
	}

	return nil
}

// DeleteExpired removes all expired tokens and returns the number deleted.
// Used by the cleanup-tokens command.
func (r *Repo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at <= now()")
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
