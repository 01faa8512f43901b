// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/risinglab/rising-backend/internal/adapter/postgres"
	"github.com/risinglab/rising-backend/internal/domain"
)

const table = "users"

var selectColumns = []string{
	"id", "email", "name", "password_hash", "avatar_url", "provider",
	"provider_id", "role", "created_at", "updated_at",
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOneBy(ctx, sq.Eq{"id": id}, id)
}

// GetByEmail returns a user by email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOneBy(ctx, sq.Eq{"email": email}, uuid.Nil)
}

func (r *Repo) getOneBy(ctx context.Context, pred sq.Eq, id uuid.UUID) (*domain.User, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table).Where(pred).Limit(1)

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return u, nil
}

// Create inserts a new user and returns the persisted record.
// Returns domain.ErrAlreadyExists on an email collision.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.UserRoleUser
	}

	sb := postgres.Builder().
		Insert(table).
		Columns("email", "name", "password_hash", "avatar_url", "provider", "provider_id", "role").
		Values(u.Email, u.Name, u.PasswordHash, u.AvatarURL, u.Provider, u.ProviderID, string(role)).
		Suffix("RETURNING id, email, name, password_hash, avatar_url, provider, provider_id, role, created_at, updated_at")

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user insert: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	created, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}

	return created, nil
}

// UpdateProfile updates the mutable profile fields of an OAuth user
// (name, avatar) after a fresh provider login.
func (r *Repo) UpdateProfile(ctx context.Context, id uuid.UUID, name string, avatarURL *string) (*domain.User, error) {
	sb := postgres.Builder().
		Update(table).
		Set("name", name).
		Set("avatar_url", avatarURL).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, email, name, password_hash, avatar_url, provider, provider_id, role, created_at, updated_at")

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user update: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.AvatarURL,
		&u.Provider, &u.ProviderID, &role, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
