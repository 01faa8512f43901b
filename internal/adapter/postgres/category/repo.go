// Package category implements the Category repository using PostgreSQL.
package category

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

const table = "categories"

var selectColumns = []string{"id", "name", "slug", "parent_id", "images", "created_at", "updated_at"}

// columns whitelists the wire fields that may appear in filters and updates.
var columns = postgres.ColumnMap{
	"name":      {Name: "name", Kind: postgres.ColumnText},
	"slug":      {Name: "slug", Kind: postgres.ColumnText},
	"parent":    {Name: "parent_id", Kind: postgres.ColumnUUID},
	"images":    {Name: "images", Kind: postgres.ColumnTextArray},
	"createdAt": {Name: "created_at", Kind: postgres.ColumnText},
	"updatedAt": {Name: "updated_at", Kind: postgres.ColumnText},
}

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Find returns categories matching the list query.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) Find(ctx context.Context, q domain.ListQuery) ([]domain.Category, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table)

	sb, err := postgres.ApplyListQuery(sb, columns, q)
	if err != nil {
		return nil, err
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// FindWithParentName returns categories with the parent's display name
// resolved via a self join.
func (r *Repo) FindWithParentName(ctx context.Context, q domain.ListQuery) ([]domain.CategoryWithParentName, error) {
	joined := postgres.ColumnMap{}
	for field, col := range columns {
		joined[field] = postgres.Column{Name: "c." + col.Name, Kind: col.Kind}
	}

	sb := postgres.Builder().
		Select("c.id", "c.name", "c.slug", "c.parent_id", "c.images", "c.created_at", "c.updated_at", "p.name").
		From(table + " c").
		LeftJoin(table + " p ON c.parent_id = p.id")

	sb, err := postgres.ApplyListQuery(sb, joined, q)
	if err != nil {
		return nil, err
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category join query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories with parent: %w", err)
	}
	defer rows.Close()

	var result []domain.CategoryWithParentName
	for rows.Next() {
		var c domain.CategoryWithParentName
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Parent, &c.Images, &c.CreatedAt, &c.UpdatedAt, &c.ParentName); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.CategoryWithParentName{}
	}
	return result, nil
}

// FindByID returns a category by primary key.
// Returns domain.ErrNotFound if no category matches.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", id)
	}

	return c, nil
}

// FindByName returns a category by its display name.
func (r *Repo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOneBy(ctx, sq.Eq{"name": name})
}

// FindBySlug returns a category by its slug.
func (r *Repo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOneBy(ctx, sq.Eq{"slug": slug})
}

func (r *Repo) findOneBy(ctx context.Context, pred sq.Eq) (*domain.Category, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table).Where(pred).Limit(1)

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", uuid.Nil)
	}

	return c, nil
}

// Create inserts a new category from a normalized field record.
// Name is required; slug defaults to a slugified name.
// Returns domain.ErrAlreadyExists on a slug collision.
func (r *Repo) Create(ctx context.Context, fields domain.Fields) (*domain.Category, error) {
	name, ok := fields.String("name")
	if !ok || name == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	slug, ok := fields.String("slug")
	if !ok || slug == "" {
		slug = domain.Slugify(name)
	}

	var parent any
	if fields.Has("parent") && fields["parent"] != nil {
		id, err := fields.UUID("parent")
		if err != nil {
			return nil, err
		}
		parent = id
	}

	images, _ := fields.Strings("images")
	if images == nil {
		images = []string{}
	}

	sb := postgres.Builder().
		Insert(table).
		Columns("name", "slug", "parent_id", "images").
		Values(name, slug, parent, images).
		Suffix("RETURNING id, name, slug, parent_id, images, created_at, updated_at")

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category insert: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", uuid.Nil)
	}

	return c, nil
}

// UpdateByID applies a partial update and returns the updated category.
// Unknown fields are ignored. Returns domain.ErrNotFound if no row matches.
func (r *Repo) UpdateByID(ctx context.Context, id uuid.UUID, fields domain.Fields) (*domain.Category, error) {
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
		Suffix("RETURNING id, name, slug, parent_id, images, created_at, updated_at")

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category update: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	c, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", id)
	}

	return c, nil
}

// DeleteByID removes a category. Returns domain.ErrNotFound if no row matched.
func (r *Repo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	sb := postgres.Builder().Delete(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build category delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "category", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Parent, &c.Images, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Parent, &c.Images, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Category{}
	}
	return result, nil
}
