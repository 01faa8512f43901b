// Package catalog implements the catalog operations that go beyond plain
// CRUD: parent resolution for categories and by-category-slug product
// lookups.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/risinglab/rising-backend/internal/domain"
)

// categoryRepo defines the category repository interface needed by the catalog service.
type categoryRepo interface {
	Find(ctx context.Context, q domain.ListQuery) ([]domain.Category, error)
	FindWithParentName(ctx context.Context, q domain.ListQuery) ([]domain.CategoryWithParentName, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, fields domain.Fields) (*domain.Category, error)
}

// diamondRepo defines the diamond repository interface needed by the catalog service.
type diamondRepo interface {
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.DiamondWithCategory, error)
}

// jewelleryRepo defines the jewellery repository interface needed by the catalog service.
type jewelleryRepo interface {
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.JewelleryWithCategory, error)
}

// Service implements catalog operations.
type Service struct {
	log        *slog.Logger
	categories categoryRepo
	diamonds   diamondRepo
	jewellery  jewelleryRepo
}

// NewService creates a new catalog service instance.
func NewService(logger *slog.Logger, categories categoryRepo, diamonds diamondRepo, jewellery jewelleryRepo) *Service {
	return &Service{
		log:        logger.With("service", "catalog"),
		categories: categories,
		diamonds:   diamonds,
		jewellery:  jewellery,
	}
}

// CreateCategory creates a category. A parent given as a human-readable name
// is resolved to the canonical category first; an unknown parent name fails
// with ErrNotFound and nothing is created. Without a parent the category is
// top-level.
func (s *Service) CreateCategory(ctx context.Context, fields domain.Fields) (*domain.Category, error) {
	if parentName, ok := fields.String("parent"); ok && parentName != "" {
		parent, err := s.categories.FindByName(ctx, parentName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("parent category %q: %w", parentName, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("catalog.CreateCategory resolve parent: %w", err)
		}
		fields["parent"] = parent.ID.String()
	}

	created, err := s.categories.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "category created",
		slog.String("category_id", created.ID.String()),
		slog.String("slug", created.Slug))

	return created, nil
}

// ListCategories returns categories matching the query. With populateParent
// set, each row carries its parent's display name.
func (s *Service) ListCategories(ctx context.Context, q domain.ListQuery, populateParent bool) (any, error) {
	if populateParent {
		return s.categories.FindWithParentName(ctx, q)
	}
	return s.categories.Find(ctx, q)
}

// DiamondsByCategorySlug resolves a category by slug and returns its
// diamonds, newest first, with the category populated. An unknown slug
// fails with ErrNotFound.
func (s *Service) DiamondsByCategorySlug(ctx context.Context, slug string) ([]domain.DiamondWithCategory, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("catalog.DiamondsByCategorySlug resolve category: %w", err)
	}

	return s.diamonds.ListByCategory(ctx, category.ID)
}

// JewelleryByCategorySlug resolves a category by slug and returns its
// jewellery, newest first, with the category populated. An unknown slug
// fails with ErrNotFound.
func (s *Service) JewelleryByCategorySlug(ctx context.Context, slug string) ([]domain.JewelleryWithCategory, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("catalog.JewelleryByCategorySlug resolve category: %w", err)
	}

	return s.jewellery.ListByCategory(ctx, category.ID)
}
