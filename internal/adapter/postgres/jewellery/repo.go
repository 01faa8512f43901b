// Package jewellery implements the Jewellery repository using PostgreSQL.
package jewellery

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

const table = "jewellery"

const returningClause = "RETURNING id, jewellery_name, brand, color, size, sku, price, description, images, category_id, status, created_at, updated_at"

var selectColumns = []string{
	"id", "jewellery_name", "brand", "color", "size", "sku", "price",
	"description", "images", "category_id", "status", "created_at", "updated_at",
}

var columns = postgres.ColumnMap{
	"jewelleryName": {Name: "jewellery_name", Kind: postgres.ColumnText},
	"brand":         {Name: "brand", Kind: postgres.ColumnText},
	"color":         {Name: "color", Kind: postgres.ColumnText},
	"size":          {Name: "size", Kind: postgres.ColumnText},
	"sku":           {Name: "sku", Kind: postgres.ColumnText},
	"price":         {Name: "price", Kind: postgres.ColumnNumeric},
	"description":   {Name: "description", Kind: postgres.ColumnText},
	"images":        {Name: "images", Kind: postgres.ColumnTextArray},
	"category":      {Name: "category_id", Kind: postgres.ColumnUUID},
	"status":        {Name: "status", Kind: postgres.ColumnText},
	"createdAt":     {Name: "created_at", Kind: postgres.ColumnText},
	"updatedAt":     {Name: "updated_at", Kind: postgres.ColumnText},
}

// Repo provides jewellery persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new jewellery repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Find returns jewellery items matching the list query.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) Find(ctx context.Context, q domain.ListQuery) ([]domain.Jewellery, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table)

	sb, err := postgres.ApplyListQuery(sb, columns, q)
	if err != nil {
		return nil, err
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build jewellery query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list jewellery: %w", err)
	}
	defer rows.Close()

	return scanJewelleryRows(rows)
}

const listByCategorySQL = `
SELECT
    j.id, j.jewellery_name, j.brand, j.color, j.size, j.sku, j.price,
    j.description, j.images, j.category_id, j.status, j.created_at, j.updated_at,
    c.id, c.name, c.slug, c.parent_id, c.images, c.created_at, c.updated_at
FROM jewellery j
JOIN categories c ON j.category_id = c.id
WHERE j.category_id = $1
ORDER BY j.created_at DESC`

// ListByCategory returns all jewellery in a category, newest first, with the
// category populated.
func (r *Repo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.JewelleryWithCategory, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listByCategorySQL, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list jewellery by category: %w", err)
	}
	defer rows.Close()

	var result []domain.JewelleryWithCategory
	for rows.Next() {
		var j domain.Jewellery
		var c domain.Category
		if err := rows.Scan(
			&j.ID, &j.JewelleryName, &j.Brand, &j.Color, &j.Size, &j.SKU, &j.Price,
			&j.Description, &j.Images, &j.CategoryID, &j.Status, &j.CreatedAt, &j.UpdatedAt,
			&c.ID, &c.Name, &c.Slug, &c.Parent, &c.Images, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan jewellery with category: %w", err)
		}
		result = append(result, domain.JewelleryWithCategory{Jewellery: j, Category: &c})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.JewelleryWithCategory{}
	}
	return result, nil
}

// FindByID returns a jewellery item by primary key.
// Returns domain.ErrNotFound if no item matches.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Jewellery, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build jewellery query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	j, err := scanJewellery(row)
	if err != nil {
		return nil, postgres.MapError(err, "jewellery", id)
	}

	return j, nil
}

// Create inserts a new jewellery item from a normalized field record.
// Requires jewelleryName, brand, color, and a category reference; status
// defaults to active.
func (r *Repo) Create(ctx context.Context, fields domain.Fields) (*domain.Jewellery, error) {
	name, ok := fields.String("jewelleryName")
	if !ok || name == "" {
		return nil, domain.NewValidationError("jewelleryName", "required")
	}
	brand, ok := fields.String("brand")
	if !ok || brand == "" {
		return nil, domain.NewValidationError("brand", "required")
	}
	color, ok := fields.String("color")
	if !ok || color == "" {
		return nil, domain.NewValidationError("color", "required")
	}

	categoryID, err := fields.UUID("category")
	if err != nil {
		return nil, err
	}

	status := string(domain.ProductStatusActive)
	if s, ok := fields.String("status"); ok && s != "" {
		if !domain.ProductStatus(s).IsValid() {
			return nil, domain.NewValidationError("status", "must be active or inactive")
		}
		status = s
	}

	var price any
	if fields.Has("price") && fields["price"] != nil {
		f, ok := fields.Float("price")
		if !ok {
			return nil, domain.NewValidationError("price", "expected number")
		}
		price = f
	}

	images, _ := fields.Strings("images")
	if images == nil {
		images = []string{}
	}

	str := func(key string) string {
		s, _ := fields.String(key)
		return s
	}

	sb := postgres.Builder().
		Insert(table).
		Columns("jewellery_name", "brand", "color", "size", "sku", "price",
			"description", "images", "category_id", "status").
		Values(name, brand, color, str("size"), str("sku"), price,
			str("description"), images, categoryID, status).
		Suffix(returningClause)

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build jewellery insert: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	j, err := scanJewellery(row)
	if err != nil {
		return nil, postgres.MapError(err, "jewellery", uuid.Nil)
	}

	return j, nil
}

// UpdateByID applies a partial update and returns the updated item.
// Unknown fields are ignored. Returns domain.ErrNotFound if no row matches.
func (r *Repo) UpdateByID(ctx context.Context, id uuid.UUID, fields domain.Fields) (*domain.Jewellery, error) {
	if s, ok := fields.String("status"); ok && !domain.ProductStatus(s).IsValid() {
		return nil, domain.NewValidationError("status", "must be active or inactive")
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
		return nil, fmt.Errorf("build jewellery update: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	j, err := scanJewellery(row)
	if err != nil {
		return nil, postgres.MapError(err, "jewellery", id)
	}

	return j, nil
}

// DeleteByID removes a jewellery item. Returns domain.ErrNotFound if no row matched.
func (r *Repo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	sb := postgres.Builder().Delete(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build jewellery delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "jewellery", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("jewellery %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanJewellery(row pgx.Row) (*domain.Jewellery, error) {
	var j domain.Jewellery
	if err := row.Scan(
		&j.ID, &j.JewelleryName, &j.Brand, &j.Color, &j.Size, &j.SKU, &j.Price,
		&j.Description, &j.Images, &j.CategoryID, &j.Status, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

func scanJewelleryRows(rows pgx.Rows) ([]domain.Jewellery, error) {
	var result []domain.Jewellery
	for rows.Next() {
		var j domain.Jewellery
		if err := rows.Scan(
			&j.ID, &j.JewelleryName, &j.Brand, &j.Color, &j.Size, &j.SKU, &j.Price,
			&j.Description, &j.Images, &j.CategoryID, &j.Status, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan jewellery: %w", err)
		}
		result = append(result, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Jewellery{}
	}
	return result, nil
}
