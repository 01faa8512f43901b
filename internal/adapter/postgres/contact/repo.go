// Package contact implements the Contact repository using PostgreSQL.
// Contact submissions are append-and-update only: the application never
// deletes them, so no delete operation exists here.
package contact

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

const table = "contacts"

const returningClause = "RETURNING id, name, email, phone, subject, message, status, created_at, updated_at"

var selectColumns = []string{
	"id", "name", "email", "phone", "subject", "message", "status",
	"created_at", "updated_at",
}

var columns = postgres.ColumnMap{
	"name":      {Name: "name", Kind: postgres.ColumnText},
	"email":     {Name: "email", Kind: postgres.ColumnText},
	"phone":     {Name: "phone", Kind: postgres.ColumnText},
	"subject":   {Name: "subject", Kind: postgres.ColumnText},
	"message":   {Name: "message", Kind: postgres.ColumnText},
	"status":    {Name: "status", Kind: postgres.ColumnText},
	"createdAt": {Name: "created_at", Kind: postgres.ColumnText},
	"updatedAt": {Name: "updated_at", Kind: postgres.ColumnText},
}

// Repo provides contact-submission persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contact repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Find returns contact submissions matching the list query.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) Find(ctx context.Context, q domain.ListQuery) ([]domain.Contact, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table)

	sb, err := postgres.ApplyListQuery(sb, columns, q)
	if err != nil {
		return nil, err
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var result []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Contact{}
	}
	return result, nil
}

// FindByID returns a contact submission by primary key.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanContact(row)
	if err != nil {
		return nil, postgres.MapError(err, "contact", id)
	}

	return c, nil
}

// Create inserts a new contact submission with status pending.
// Name, email, phone, and message are required.
func (r *Repo) Create(ctx context.Context, fields domain.Fields) (*domain.Contact, error) {
	for _, required := range []string{"name", "email", "phone", "message"} {
		if s, ok := fields.String(required); !ok || s == "" {
			return nil, domain.NewValidationError(required, "required")
		}
	}

	str := func(key string) string {
		s, _ := fields.String(key)
		return s
	}

	sb := postgres.Builder().
		Insert(table).
		Columns("name", "email", "phone", "subject", "message", "status").
		Values(str("name"), str("email"), str("phone"), str("subject"), str("message"),
			string(domain.ContactStatusPending)).
		Suffix(returningClause)

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact insert: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanContact(row)
	if err != nil {
		return nil, postgres.MapError(err, "contact", uuid.Nil)
	}

	return c, nil
}

// UpdateByID applies a partial update (in practice a status transition) and
// returns the updated submission. Returns domain.ErrNotFound if no row matches.
func (r *Repo) UpdateByID(ctx context.Context, id uuid.UUID, fields domain.Fields) (*domain.Contact, error) {
	if s, ok := fields.String("status"); ok && !domain.ContactStatus(s).IsValid() {
		return nil, domain.NewValidationError("status", "must be pending or replied")
	}

	set, err := postgres.BuildSetMap(columns, fields)
	if err != nil {
		return nil, err
	}
	delete(set, "created_at")
	set["updated_at"] = sq.Expr("now()")

	sb := postgres.Builder().
		Update(table).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix(returningClause)

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contact update: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanContact(row)
	if err != nil {
		return nil, postgres.MapError(err, "contact", id)
	}

	return c, nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
