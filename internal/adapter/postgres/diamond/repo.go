// Package diamond implements the Diamond repository using PostgreSQL.
package diamond

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

const table = "diamonds"

const returningClause = "RETURNING id, diamond_name, brand, diamond_type, color, weight, size, clarity, shape, cut, description, images, category_id, status, created_at, updated_at"

var selectColumns = []string{
	"id", "diamond_name", "brand", "diamond_type", "color", "weight", "size",
	"clarity", "shape", "cut", "description", "images", "category_id", "status",
	"created_at", "updated_at",
}

var columns = postgres.ColumnMap{
	"diamondName": {Name: "diamond_name", Kind: postgres.ColumnText},
	"brand":       {Name: "brand", Kind: postgres.ColumnText},
	"diamondType": {Name: "diamond_type", Kind: postgres.ColumnText},
	"color":       {Name: "color", Kind: postgres.ColumnText},
	"weight":      {Name: "weight", Kind: postgres.ColumnText},
	"size":        {Name: "size", Kind: postgres.ColumnText},
	"clarity":     {Name: "clarity", Kind: postgres.ColumnText},
	"shape":       {Name: "shape", Kind: postgres.ColumnText},
	"cut":         {Name: "cut", Kind: postgres.ColumnText},
	"description": {Name: "description", Kind: postgres.ColumnText},
	"images":      {Name: "images", Kind: postgres.ColumnTextArray},
	"category":    {Name: "category_id", Kind: postgres.ColumnUUID},
	"status":      {Name: "status", Kind: postgres.ColumnText},
	"createdAt":   {Name: "created_at", Kind: postgres.ColumnText},
	"updatedAt":   {Name: "updated_at", Kind: postgres.ColumnText},
}

// Repo provides diamond persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new diamond repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Find returns diamonds matching the list query.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) Find(ctx context.Context, q domain.ListQuery) ([]domain.Diamond, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table)

	sb, err := postgres.ApplyListQuery(sb, columns, q)
	if err != nil {
		return nil, err
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build diamond query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list diamonds: %w", err)
	}
	defer rows.Close()

	return scanDiamonds(rows)
}

const listByCategorySQL = `
SELECT
    d.id, d.diamond_name, d.brand, d.diamond_type, d.color, d.weight, d.size,
    d.clarity, d.shape, d.cut, d.description, d.images, d.category_id, d.status,
    d.created_at, d.updated_at,
    c.id, c.name, c.slug, c.parent_id, c.images, c.created_at, c.updated_at
FROM diamonds d
JOIN categories c ON d.category_id = c.id
WHERE d.category_id = $1
ORDER BY d.created_at DESC`

// ListByCategory returns all diamonds in a category, newest first, with the
// category populated.
func (r *Repo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.DiamondWithCategory, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listByCategorySQL, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list diamonds by category: %w", err)
	}
	defer rows.Close()

	var result []domain.DiamondWithCategory
	for rows.Next() {
		var d domain.Diamond
		var c domain.Category
		if err := rows.Scan(
			&d.ID, &d.DiamondName, &d.Brand, &d.DiamondType, &d.Color, &d.Weight, &d.Size,
			&d.Clarity, &d.Shape, &d.Cut, &d.Description, &d.Images, &d.CategoryID, &d.Status,
			&d.CreatedAt, &d.UpdatedAt,
			&c.ID, &c.Name, &c.Slug, &c.Parent, &c.Images, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan diamond with category: %w", err)
		}
		result = append(result, domain.DiamondWithCategory{Diamond: d, Category: &c})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.DiamondWithCategory{}
	}
	return result, nil
}

// FindByID returns a diamond by primary key.
// Returns domain.ErrNotFound if no diamond matches.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Diamond, error) {
	sb := postgres.Builder().Select(selectColumns...).From(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build diamond query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	d, err := scanDiamond(row)
	if err != nil {
		return nil, postgres.MapError(err, "diamond", id)
	}

	return d, nil
}

// Create inserts a new diamond from a normalized field record.
// Requires diamondName, color, weight, and a category reference; status
// defaults to active. Returns domain.ErrNotFound when the category reference
// does not exist (FK violation).
func (r *Repo) Create(ctx context.Context, fields domain.Fields) (*domain.Diamond, error) {
	name, ok := fields.String("diamondName")
	if !ok || name == "" {
		return nil, domain.NewValidationError("diamondName", "required")
	}
	color, ok := fields.String("color")
	if !ok || color == "" {
		return nil, domain.NewValidationError("color", "required")
	}
	weight, ok := fields.String("weight")
	if !ok || weight == "" {
		return nil, domain.NewValidationError("weight", "required")
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
		Columns("diamond_name", "brand", "diamond_type", "color", "weight", "size",
			"clarity", "shape", "cut", "description", "images", "category_id", "status").
		Values(name, str("brand"), str("diamondType"), color, weight, str("size"),
			str("clarity"), str("shape"), str("cut"), str("description"), images, categoryID, status).
		Suffix(returningClause)

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build diamond insert: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	d, err := scanDiamond(row)
	if err != nil {
		return nil, postgres.MapError(err, "diamond", uuid.Nil)
	}

	return d, nil
}

// UpdateByID applies a partial update and returns the updated diamond.
// Unknown fields are ignored. Returns domain.ErrNotFound if no row matches.
func (r *Repo) UpdateByID(ctx context.Context, id uuid.UUID, fields domain.Fields) (*domain.Diamond, error) {
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
		return nil, fmt.Errorf("build diamond update: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	d, err := scanDiamond(row)
	if err != nil {
		return nil, postgres.MapError(err, "diamond", id)
	}

	return d, nil
}

// DeleteByID removes a diamond. Returns domain.ErrNotFound if no row matched.
func (r *Repo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	sb := postgres.Builder().Delete(table).Where(sq.Eq{"id": id})

	sql, args, err := sb.ToSql()
	if err != nil {
		return fmt.Errorf("build diamond delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "diamond", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("diamond %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanDiamond(row pgx.Row) (*domain.Diamond, error) {
	var d domain.Diamond
	if err := row.Scan(
		&d.ID, &d.DiamondName, &d.Brand, &d.DiamondType, &d.Color, &d.Weight, &d.Size,
		&d.Clarity, &d.Shape, &d.Cut, &d.Description, &d.Images, &d.CategoryID, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDiamonds(rows pgx.Rows) ([]domain.Diamond, error) {
	var result []domain.Diamond
	for rows.Next() {
		var d domain.Diamond
		if err := rows.Scan(
			&d.ID, &d.DiamondName, &d.Brand, &d.DiamondType, &d.Color, &d.Weight, &d.Size,
			&d.Clarity, &d.Shape, &d.Cut, &d.Description, &d.Images, &d.CategoryID, &d.Status,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan diamond: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Diamond{}
	}
	return result, nil
}
